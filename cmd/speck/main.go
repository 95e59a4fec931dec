// speck renders a running test suite as a live dot grid in the terminal,
// prints a nested failure report when the run ends, and can gate the
// process exit code on a coverage threshold.
//
// Usage:
//
//	go test -json ./... | speck
//	go test -json -coverprofile=coverage.out ./... | speck --cover coverage.out
//	go test -json ./... | speck --tui
//
// Configuration comes from .speck.yaml (threshold, gate formula, message
// lines); flags override the manifest.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/speck-sh/speck/internal/config"
	"github.com/speck-sh/speck/internal/coverage"
	"github.com/speck-sh/speck/internal/version"
	"github.com/speck-sh/speck/pkg/grid"
	"github.com/speck-sh/speck/pkg/lifecycle"
	"github.com/speck-sh/speck/pkg/reporter"
	"github.com/speck-sh/speck/pkg/testjson"
	"github.com/speck-sh/speck/pkg/tui"
)

type CLI struct {
	Width     int    `help:"Grid columns. Defaults to the detected terminal width."`
	Total     int    `help:"Expected test count. Enables pass-through streaming instead of buffering."`
	Cover     string `help:"Glob of Go cover profiles to read at the end of the run." placeholder:"GLOB"`
	Threshold *int   `help:"Minimum coverage percent. Overrides the manifest; 0 disables the gate."`
	Config    string `help:"Manifest path." default:".speck.yaml"`
	TUI       bool   `name:"tui" help:"Full-screen live view instead of in-place rendering."`
	NoColor   bool   `help:"Disable ANSI colors."`
	Version   bool   `help:"Print version and exit."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c CLI
	parser, err := kong.New(&c,
		kong.Name("speck"),
		kong.Description("Dot-grid test run visualizer for go test -json."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 2
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 2
	}
	if c.Version {
		fmt.Fprintf(stdout, "speck %s (%s, %s)\n", version.Version, version.CommitHash, version.BuildDate)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := resolveOptions(c, stdout)
	provider := resolveProvider(c)

	if c.TUI {
		return runTUI(ctx, stdin, stderr, provider, opts)
	}
	if c.Total > 0 {
		return runLive(ctx, c.Total, stdin, stdout, stderr, provider, opts)
	}
	return runBuffered(ctx, stdin, stdout, stderr, provider, opts)
}

// resolveOptions merges manifest and flags: flags win.
func resolveOptions(c CLI, stdout io.Writer) reporter.Options {
	manifest := config.Load(c.Config)
	opts := reporter.Options{
		Width:     c.Width,
		Threshold: manifest.Threshold,
		Formula:   manifest.Formula,
		Messages:  manifest.Messages,
		Palette:   grid.DefaultPalette(),
	}
	if c.Threshold != nil {
		opts.Threshold = *c.Threshold
	}
	if opts.Width <= 0 {
		opts.Width, _ = termSize(stdout)
	}
	if c.NoColor || !isTTYWriter(stdout) {
		opts.Palette = grid.MonochromePalette()
	}
	return opts
}

func resolveProvider(c CLI) coverage.Provider {
	if c.Cover == "" {
		return coverage.Static{}
	}
	return coverage.FileProvider{Pattern: c.Cover}
}

// runBuffered reads the whole stream first to learn the test count, then
// replays it through the reporter. Visually identical to streaming: the
// grid still repaints per outcome.
func runBuffered(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, provider coverage.Provider, opts reporter.Options) int {
	events, malformed, err := testjson.Collect(ctx, stdin)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 2
	}
	if malformed > 0 {
		fmt.Fprintf(stderr, "speck: skipped %d malformed input lines\n", malformed)
	}
	if len(events) <= 2 { // Start and End only: nothing ran
		fmt.Fprintln(stderr, "speck: no test events on stdin")
		return 2
	}
	return reporter.Run(events, stdout, provider, opts)
}

// runLive streams events straight into the reporter as they arrive.
// Requires the caller to announce the test count up front.
func runLive(ctx context.Context, total int, stdin io.Reader, stdout, stderr io.Writer, provider coverage.Provider, opts reporter.Options) int {
	r := reporter.New(grid.NewTermSurface(stdout), provider, opts)
	tr := testjson.NewTranslator(total, r.Handle)
	malformed, err := testjson.Stream(ctx, stdin, tr.Handle)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 2
	}
	tr.Finish()
	if malformed > 0 {
		fmt.Fprintf(stderr, "speck: skipped %d malformed input lines\n", malformed)
	}
	return r.ExitCode()
}

// runTUI buffers the stream (the view also needs the total up front),
// then pumps the lifecycle sequence into the bubbletea program.
func runTUI(ctx context.Context, stdin io.Reader, stderr io.Writer, provider coverage.Provider, opts reporter.Options) int {
	events, malformed, err := testjson.Collect(ctx, stdin)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 2
	}
	if malformed > 0 {
		fmt.Fprintf(stderr, "speck: skipped %d malformed input lines\n", malformed)
	}

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan lifecycle.Event)
	var g errgroup.Group
	g.Go(func() error {
		defer close(ch)
		return pumpEvents(pctx, events, ch)
	})

	code, err := tui.Run(pctx, ch, provider, opts)
	// The view can quit mid-stream (ctrl+c arrives as a key, not a
	// signal); unblock the pump before waiting on it.
	cancel()
	if werr := g.Wait(); err == nil && werr != nil && !errors.Is(werr, context.Canceled) {
		err = werr
	}
	if err != nil {
		fmt.Fprintf(stderr, "speck: %v\n", err)
		return 1
	}
	return code
}

// pumpEvents sends the buffered sequence on ch until it runs out or ctx
// is cancelled. The consumer may stop receiving at any point, so
// cancellation is the only way the pump learns nobody is listening.
func pumpEvents(ctx context.Context, events []lifecycle.Event, ch chan<- lifecycle.Event) error {
	for _, e := range events {
		select {
		case ch <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
