// Package grid renders the dot-matrix test progress grid in place.
//
// All terminal output during a run flows through a single Surface — no
// other code may write to the same region between New and Close, or the
// fixed cursor-up repaint anchor breaks.
package grid

import (
	"fmt"
	"io"
)

// Surface is the terminal capability the renderer draws through: styled
// text out, cursor repositioning, cursor visibility. Implementations do
// not read the terminal back.
type Surface interface {
	Print(text string)
	CursorUp(n int)
	HideCursor()
	ShowCursor()
}

const (
	hideCursorSeq = "\033[?25l"
	showCursorSeq = "\033[?25h"
)

// TermSurface emits raw ANSI escape sequences to a writer.
type TermSurface struct {
	out io.Writer
}

// NewTermSurface returns a Surface writing to out.
func NewTermSurface(out io.Writer) *TermSurface {
	return &TermSurface{out: out}
}

func (s *TermSurface) Print(text string) {
	fmt.Fprint(s.out, text)
}

// CursorUp moves the cursor up n lines, keeping the column. No-op for n <= 0.
func (s *TermSurface) CursorUp(n int) {
	if n <= 0 {
		return
	}
	fmt.Fprintf(s.out, "\033[%dA", n)
}

func (s *TermSurface) HideCursor() {
	fmt.Fprint(s.out, hideCursorSeq)
}

func (s *TermSurface) ShowCursor() {
	fmt.Fprint(s.out, showCursorSeq)
}
