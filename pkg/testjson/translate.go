package testjson

import (
	"context"
	"io"
	"strings"

	"github.com/speck-sh/speck/pkg/lifecycle"
)

// Translator turns go test -json events into run lifecycle events.
//
// Packages become top-level suites and `/`-separated subtest paths become
// nested suites. Suite boundaries are synthesized by diffing each leaf's
// ancestor path against the currently open path, so interleaved parallel
// packages still yield a properly nested sequence. A test is a leaf if no
// subtest of it was ever announced; parents contribute structure, not
// grid slots. Skipped tests occupy no slot at all.
type Translator struct {
	emit    func(lifecycle.Event)
	open    []string            // open suite path: package, then subtest segments
	parents map[string]bool     // tests known to own subtests
	output  map[string][]string // buffered output lines per package/test
	leaves  map[string]int      // leaf outcomes emitted per package
}

// NewTranslator immediately emits the Start event carrying total.
func NewTranslator(total int, emit func(lifecycle.Event)) *Translator {
	t := &Translator{
		emit:    emit,
		parents: make(map[string]bool),
		output:  make(map[string][]string),
		leaves:  make(map[string]int),
	}
	emit(lifecycle.NewStart(total))
	return t
}

// bufKey returns the buffer key for a package/test pair.
func bufKey(pkg, test string) string {
	return pkg + "\x00" + test
}

// Handle processes one decoded test event.
func (t *Translator) Handle(e TestEvent) {
	switch e.Action {
	case "run":
		t.markAncestors(e.Package, e.Test)
	case "output":
		t.bufferOutput(e)
	case "pass", "fail":
		if e.Test != "" {
			t.handleTest(e)
		} else {
			t.handlePackage(e)
		}
	case "skip":
		delete(t.output, bufKey(e.Package, e.Test))
	}
}

// Finish closes any still-open suites and emits End.
func (t *Translator) Finish() {
	t.syncPath(nil)
	t.emit(lifecycle.NewEnd())
}

// markAncestors records every proper prefix of test as a suite-bearing
// parent. go test announces subtests after their parents, so by the time
// a parent's own terminal event arrives it is already marked.
func (t *Translator) markAncestors(pkg, test string) {
	for i, r := range test {
		if r == '/' {
			t.parents[bufKey(pkg, test[:i])] = true
		}
	}
}

func (t *Translator) bufferOutput(e TestEvent) {
	line := strings.TrimSpace(strings.TrimRight(e.Output, "\n"))
	if line == "" || isBoilerplate(line) {
		return
	}
	key := bufKey(e.Package, e.Test)
	t.output[key] = append(t.output[key], line)
}

func (t *Translator) handleTest(e TestEvent) {
	key := bufKey(e.Package, e.Test)
	if t.parents[key] {
		// A parent test's own verdict is structural; its subtrees already
		// reported.
		delete(t.output, key)
		return
	}

	segs := strings.Split(e.Test, "/")
	target := append([]string{e.Package}, segs[:len(segs)-1]...)
	t.syncPath(target)

	if e.Action == "pass" {
		t.emit(lifecycle.NewPass())
	} else {
		t.emit(lifecycle.NewFail(segs[len(segs)-1], t.message(key)))
	}
	t.leaves[e.Package]++
	delete(t.output, key)
}

// handlePackage handles the package terminal event. A failing package
// that produced no leaf outcomes (build failure, TestMain crash) still
// earns one failing slot so the run cannot end silently green.
func (t *Translator) handlePackage(e TestEvent) {
	key := bufKey(e.Package, "")
	if e.Action == "fail" && t.leaves[e.Package] == 0 {
		t.syncPath([]string{e.Package})
		t.emit(lifecycle.NewFail("package failed", t.message(key)))
		t.leaves[e.Package]++
	}
	delete(t.output, key)
	// Close everything the package had open.
	if len(t.open) > 0 && t.open[0] == e.Package {
		t.syncPath(nil)
	}
}

// message joins the buffered output for key into a single line.
func (t *Translator) message(key string) string {
	return strings.Join(t.output[key], "; ")
}

// syncPath emits the SuiteClose/SuiteOpen events that take the open path
// to target: close down to the longest common prefix, then open the rest.
func (t *Translator) syncPath(target []string) {
	common := 0
	for common < len(t.open) && common < len(target) && t.open[common] == target[common] {
		common++
	}
	for i := len(t.open); i > common; i-- {
		t.emit(lifecycle.NewSuiteClose())
	}
	t.open = t.open[:common]
	for _, title := range target[common:] {
		t.emit(lifecycle.NewSuiteOpen(title))
		t.open = append(t.open, title)
	}
}

// isBoilerplate reports go test chrome that never belongs in a failure
// message.
func isBoilerplate(line string) bool {
	return strings.HasPrefix(line, "=== ") ||
		strings.HasPrefix(line, "--- ") ||
		strings.HasPrefix(line, "FAIL") ||
		strings.HasPrefix(line, "PASS") ||
		strings.HasPrefix(line, "ok  ") ||
		strings.HasPrefix(line, "exit status")
}

// Translate converts a complete go test -json event sequence into a
// lifecycle sequence. The total is learned by a dry counting pass with
// the same machinery that does the real emission, so the two can never
// disagree.
func Translate(events []TestEvent) []lifecycle.Event {
	total := 0
	count := NewTranslator(0, func(e lifecycle.Event) {
		if e.Kind == lifecycle.Pass || e.Kind == lifecycle.Fail {
			total++
		}
	})
	for _, e := range events {
		count.Handle(e)
	}
	count.Finish()

	out := make([]lifecycle.Event, 0, total*2+2)
	tr := NewTranslator(total, func(e lifecycle.Event) { out = append(out, e) })
	for _, e := range events {
		tr.Handle(e)
	}
	tr.Finish()
	return out
}

// Collect parses the full stream and returns the lifecycle sequence plus
// the number of malformed input lines skipped.
func Collect(ctx context.Context, r io.Reader) ([]lifecycle.Event, int, error) {
	events, malformed, err := Parse(ctx, r)
	if err != nil {
		return nil, malformed, err
	}
	return Translate(events), malformed, nil
}
