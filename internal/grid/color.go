// Package grid implements the cell grid, scrollback history, and
// screen-write adaptation layer that sits between the VT parser and a
// renderer: coordinate-based mutations only, no I/O.
package grid

// ColorMode distinguishes how a Color's value should be interpreted.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorIndexed
	ColorRGB
)

// Color is a foreground or background colour: the terminal default, one of
// the 256 palette entries, or a 24-bit truecolour triple.
type Color struct {
	Mode       ColorMode
	Index      uint8
	R, G, B    uint8
}

// DefaultColor is the zero value: "use the terminal/theme default".
var DefaultColor = Color{Mode: ColorDefault}

func IndexedColor(i int) Color {
	return Color{Mode: ColorIndexed, Index: uint8(i)}
}

func RGBColor(r, g, b int) Color {
	return Color{Mode: ColorRGB, R: uint8(r), G: uint8(g), B: uint8(b)}
}

func (c Color) IsDefault() bool { return c.Mode == ColorDefault }
