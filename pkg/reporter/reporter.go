// Package reporter coordinates a run: it feeds outcomes to the dot grid,
// accumulates the suite failure tree, and settles the coverage gate.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/speck-sh/speck/internal/coverage"
	"github.com/speck-sh/speck/pkg/grid"
	"github.com/speck-sh/speck/pkg/lifecycle"
	"github.com/speck-sh/speck/pkg/report"
)

// Options configure a run.
type Options struct {
	Width     int              // terminal columns; <= 0 means 80
	Threshold int              // minimum coverage percent; 0 disables the gate
	Formula   coverage.Formula // gate computation variant
	Messages  bool             // render failure message lines
	Palette   grid.Palette
}

// Runner is the single-threaded state machine driven by lifecycle events.
// The emitter must deliver a well-formed sequence and never re-enter it
// concurrently; malformed sequences are a caller contract violation.
type Runner struct {
	surface  grid.Surface
	provider coverage.Provider
	opts     Options

	matrix  *grid.Matrix
	builder report.Builder
	code    int
}

// New returns a Runner drawing through surface. The coverage provider is
// consulted exactly once, when the End event arrives.
func New(surface grid.Surface, provider coverage.Provider, opts Options) *Runner {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if provider == nil {
		provider = coverage.Static{}
	}
	return &Runner{surface: surface, provider: provider, opts: opts}
}

// Handle processes one lifecycle event.
func (r *Runner) Handle(e lifecycle.Event) {
	switch e.Kind {
	case lifecycle.Start:
		r.matrix = grid.NewMatrix(r.surface, r.opts.Palette, e.Total, r.opts.Width)
	case lifecycle.SuiteOpen:
		r.builder.Open(e.Title)
	case lifecycle.SuiteClose:
		r.builder.Close()
	case lifecycle.Pass:
		r.matrix.RecordPass()
	case lifecycle.Fail:
		r.matrix.RecordFail()
		r.builder.Fail(e.Title, e.Message)
	case lifecycle.End:
		r.finish()
	}
}

// ExitCode is meaningful after End has been handled: 1 when a configured
// coverage threshold was missed, 0 otherwise.
func (r *Runner) ExitCode() int { return r.code }

// finish prints the summary line and the failure report, then applies
// the coverage gate.
func (r *Runner) finish() {
	snap, err := r.provider.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "speck: reading coverage: %v\n", err)
		snap = coverage.Snapshot{}
	}
	r.matrix.Close(snap.Text())

	var sb strings.Builder
	ropts := report.Options{
		Palette:  r.opts.Palette,
		Messages: r.opts.Messages,
		Width:    r.opts.Width,
	}
	for _, root := range r.builder.Roots() {
		root.Render(&sb, 0, ropts)
	}
	if sb.Len() > 0 {
		r.surface.Print("\n" + sb.String())
	}

	if Gate(snap, r.opts.Threshold, r.opts.Formula) {
		r.code = 1
	}
}

// Gate reports whether the coverage gate trips. A zero threshold never
// gates. Unknown coverage never trips the round formula; under the legacy
// formula it computes literally to 0 and fails any positive threshold.
func Gate(snap coverage.Snapshot, threshold int, f coverage.Formula) bool {
	if threshold <= 0 {
		return false
	}
	if !snap.Known() && f == coverage.FormulaRound {
		return false
	}
	return snap.GatePercent(f) < threshold
}

// Run drives a complete event sequence through a fresh Runner writing to
// out and returns the process exit code.
func Run(events []lifecycle.Event, out io.Writer, provider coverage.Provider, opts Options) int {
	r := New(grid.NewTermSurface(out), provider, opts)
	for _, e := range events {
		r.Handle(e)
	}
	return r.ExitCode()
}
