// Package lifecycle defines the ordered event stream that drives a run.
//
// A well-formed sequence is: one Start, then any interleaving of
// SuiteOpen/SuiteClose (properly nested) with Pass/Fail, then one End.
// The consumer is single-threaded and must never be re-entered.
package lifecycle

// Kind discriminates Event variants.
type Kind int

const (
	Start      Kind = iota // carries Total
	SuiteOpen              // carries Title
	SuiteClose             // no payload
	Pass                   // no payload
	Fail                   // carries Title and Message
	End                    // no payload
)

// String returns the event name as the runner protocol spells it.
func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case SuiteOpen:
		return "suite"
	case SuiteClose:
		return "suite end"
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case End:
		return "end"
	}
	return "unknown"
}

// Event is one runner lifecycle notification. Fields beyond Kind are
// meaningful only for the variants noted on the Kind constants.
type Event struct {
	Kind    Kind
	Total   int    // Start: total number of tests in the run
	Title   string // SuiteOpen: suite name; Fail: failing test name
	Message string // Fail: human-readable failure message, may be empty
}

// NewStart announces a run of total tests.
func NewStart(total int) Event { return Event{Kind: Start, Total: total} }

// NewSuiteOpen pushes a named suite.
func NewSuiteOpen(title string) Event { return Event{Kind: SuiteOpen, Title: title} }

// NewSuiteClose pops the innermost open suite.
func NewSuiteClose() Event { return Event{Kind: SuiteClose} }

// NewPass records one passing test.
func NewPass() Event { return Event{Kind: Pass} }

// NewFail records one failing test with its message.
func NewFail(title, message string) Event {
	return Event{Kind: Fail, Title: title, Message: message}
}

// NewEnd closes the run.
func NewEnd() Event { return Event{Kind: End} }
