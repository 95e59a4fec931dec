package grid

import "fmt"

// Category identifies one of the five semantic output classes.
type Category int

const (
	CatPending Category = iota
	CatPass
	CatFail
	CatFailHeader
	CatError
)

// Palette maps categories to ANSI 8-color foreground codes and the three
// cell glyphs. With Color false, Paint passes text through unstyled.
type Palette struct {
	PendingCode    int
	PassCode       int
	FailCode       int
	FailHeaderCode int
	ErrorCode      int

	PendingGlyph string
	PassGlyph    string
	FailGlyph    string

	Color bool
}

// DefaultPalette is the standard colored palette.
func DefaultPalette() Palette {
	return Palette{
		PendingCode:    36, // cyan
		PassCode:       32, // green
		FailCode:       31, // red
		FailHeaderCode: 33, // yellow
		ErrorCode:      35, // magenta
		PendingGlyph:   "·",
		PassGlyph:      "·",
		FailGlyph:      "✗",
		Color:          true,
	}
}

// MonochromePalette drops all color codes and switches the pending glyph
// to a plain dot so filled and unfilled cells stay distinguishable.
func MonochromePalette() Palette {
	p := DefaultPalette()
	p.Color = false
	p.PendingGlyph = "."
	return p
}

func (p Palette) code(c Category) int {
	switch c {
	case CatPending:
		return p.PendingCode
	case CatPass:
		return p.PassCode
	case CatFail:
		return p.FailCode
	case CatFailHeader:
		return p.FailHeaderCode
	case CatError:
		return p.ErrorCode
	}
	return 0
}

// Paint wraps text in the SGR foreground sequence for the category.
func (p Palette) Paint(c Category, text string) string {
	if !p.Color {
		return text
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", p.code(c), text)
}
