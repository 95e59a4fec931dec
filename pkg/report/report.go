// Package report accumulates and renders the nested suite failure tree.
//
// Every opened suite is recorded unconditionally; pruning of failure-free
// branches happens at render time, which keeps suite bookkeeping trivial
// during the run.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/speck-sh/speck/pkg/grid"
)

// Failure is one failing test: its display name and message. Immutable
// after creation.
type Failure struct {
	Title   string
	Message string
}

// Suite mirrors one level of the runner's suite nesting. A node is safe
// to render only after its closing event has fired; until then it may
// still receive children and failures.
type Suite struct {
	Title    string
	Children []*Suite
	Failures []Failure
}

// HasFailures reports whether the suite or any descendant recorded a
// failure. Computed on demand; the tree is only queried after mutation
// has stopped.
func (s *Suite) HasFailures() bool {
	if len(s.Failures) > 0 {
		return true
	}
	for _, c := range s.Children {
		if c.HasFailures() {
			return true
		}
	}
	return false
}

// Options control failure-tree rendering.
type Options struct {
	Palette  grid.Palette
	Messages bool // emit the message line under each failing test
	Width    int  // terminal columns for message truncation; <= 0 disables
}

const indent = "  "

// Render writes the suite's failure report at the given depth. A suite
// with no failures anywhere below it contributes nothing, title included.
// Order is fixed: own header, own failures, then children one level
// deeper. An untitled suite (the implicit root) skips its header and
// renders its contents at the same depth.
func (s *Suite) Render(sb *strings.Builder, depth int, opts Options) {
	if !s.HasFailures() {
		return
	}
	childDepth := depth
	if s.Title != "" {
		sb.WriteString(strings.Repeat(indent, depth))
		sb.WriteString(opts.Palette.Paint(grid.CatFailHeader, s.Title))
		sb.WriteByte('\n')
		childDepth = depth + 1
	}
	for _, f := range s.Failures {
		f.render(sb, childDepth, opts)
	}
	for _, c := range s.Children {
		c.Render(sb, childDepth, opts)
	}
}

// render emits the failure's title line and, when enabled, its message
// line one level deeper. An absent message still yields the (empty)
// message line so line-oriented consumers see a stable rhythm.
func (f Failure) render(sb *strings.Builder, depth int, opts Options) {
	pad := strings.Repeat(indent, depth)
	sb.WriteString(pad)
	sb.WriteString(opts.Palette.Paint(grid.CatFail, f.Title))
	sb.WriteByte('\n')
	if !opts.Messages {
		return
	}
	msg := f.Message
	if opts.Width > 0 {
		msg = truncate(msg, opts.Width-len(pad)-len(indent))
	}
	sb.WriteString(pad)
	sb.WriteString(indent)
	sb.WriteString(opts.Palette.Paint(grid.CatError, msg))
	sb.WriteByte('\n')
}

// truncate cuts s to the given visual width, rune-width aware.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
