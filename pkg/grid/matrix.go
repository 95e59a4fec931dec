package grid

import (
	"fmt"
	"strings"
)

// Matrix owns the fixed-capacity outcome grid and repaints it in full
// after every recorded outcome. It never diffs previous output: the whole
// region is redrawn each time, so cursor drift cannot accumulate.
//
// Between paints the cursor rests at the start of the summary line, one
// blank spacer line below the grid body. Every paint re-anchors by moving
// up exactly rows+1 lines, where rows is fixed at construction.
type Matrix struct {
	surface Surface
	palette Palette

	total int
	width int
	rows  int

	outcomes []bool // pass=true, append-only, len <= total
	passed   int
	failed   int
}

// NewMatrix reserves the grid region (rows plus the summary line), hides
// the cursor, and paints the initial all-pending frame. A zero total
// still draws a single empty frame. Width defaults to 80 when not positive.
func NewMatrix(surface Surface, palette Palette, total, width int) *Matrix {
	if width <= 0 {
		width = 80
	}
	if total < 0 {
		total = 0
	}
	m := &Matrix{
		surface: surface,
		palette: palette,
		total:   total,
		width:   width,
		rows:    (total + width - 1) / width,
	}
	m.surface.HideCursor()
	m.surface.Print(strings.Repeat("\n", m.rows+1))
	m.paint()
	return m
}

// RecordPass appends a passing outcome and repaints.
func (m *Matrix) RecordPass() {
	m.outcomes = append(m.outcomes, true)
	m.passed++
	m.paint()
}

// RecordFail appends a failing outcome and repaints.
func (m *Matrix) RecordFail() {
	m.outcomes = append(m.outcomes, false)
	m.failed++
	m.paint()
}

// Passed returns the number of passing outcomes recorded so far.
func (m *Matrix) Passed() int { return m.passed }

// Failed returns the number of failing outcomes recorded so far.
func (m *Matrix) Failed() int { return m.failed }

// Filled returns the number of resolved cells.
func (m *Matrix) Filled() int { return len(m.outcomes) }

// paint redraws the whole region: resolved glyphs in call order, then a
// pending glyph per unfilled slot. The column counter runs continuously
// across the resolved/pending boundary, so the wrap point never restarts.
// Output is deterministic for a given outcome count.
func (m *Matrix) paint() {
	m.surface.CursorUp(m.rows + 1)

	var sb strings.Builder
	col := 0
	for i := 0; i < m.total; i++ {
		switch {
		case i >= len(m.outcomes):
			sb.WriteString(m.palette.Paint(CatPending, m.palette.PendingGlyph))
		case m.outcomes[i]:
			sb.WriteString(m.palette.Paint(CatPass, m.palette.PassGlyph))
		default:
			sb.WriteString(m.palette.Paint(CatFail, m.palette.FailGlyph))
		}
		col++
		if col == m.width {
			sb.WriteByte('\n')
			col = 0
		}
	}
	if col != 0 {
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n') // spacer before the summary line
	m.surface.Print(sb.String())
}

// Close prints the final summary on the line the cursor already rests on
// and restores cursor visibility. coverageText is the pre-rendered
// coverage fragment ("no coverage" or "NN% coverage").
func (m *Matrix) Close(coverageText string) {
	m.surface.Print(fmt.Sprintf("%d passed  %d failed  %s\n", m.passed, m.failed, coverageText))
	m.surface.ShowCursor()
}
