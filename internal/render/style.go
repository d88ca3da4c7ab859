// Package render projects a window's pane grids onto an attached client's
// physical terminal, per spec.md §4.6: full/pane/status redraw modes, a
// sixel or placeholder path for image cells, and attribute translation
// that respects the client's negotiated terminal capabilities. Grounded on
// the teacher's internal/session/client/render.go (cursor-anchored
// per-row redraw, style-on-change SGR emission), generalized from one
// fixed virtual terminal to many tiled panes.
package render

import (
	"strconv"
	"strings"

	"zmux/internal/grid"
	"zmux/internal/proto"
)

// sgrReset is emitted before every style change, matching the teacher's
// render.go "\033[0m" + fresh style on every region boundary.
const sgrReset = "\033[0m"

// cellSGR returns the SGR escape sequence selecting c's rendition, downsampling
// colours the client hasn't advertised support for.
func cellSGR(c grid.Cell, caps proto.CapFlags) string {
	var params []string

	if c.Attrs&grid.AttrBright != 0 {
		params = append(params, "1")
	}
	if c.Attrs&grid.AttrDim != 0 {
		params = append(params, "2")
	}
	if c.Attrs&grid.AttrItalic != 0 {
		params = append(params, "3")
	}
	if c.Attrs&grid.AttrUnderline != 0 {
		params = append(params, "4")
	}
	if c.Attrs&grid.AttrDoubleUnderline != 0 {
		params = append(params, "21")
	}
	if c.Attrs&grid.AttrBlink != 0 {
		params = append(params, "5")
	}
	if c.Attrs&grid.AttrReverse != 0 {
		params = append(params, "7")
	}
	if c.Attrs&grid.AttrHidden != 0 {
		params = append(params, "8")
	}
	if c.Attrs&grid.AttrStrikethrough != 0 {
		params = append(params, "9")
	}

	params = append(params, colorParams(c.Fg, caps, false)...)
	params = append(params, colorParams(c.Bg, caps, true)...)

	if len(params) == 0 {
		return ""
	}
	return "\033[" + strings.Join(params, ";") + "m"
}

// colorParams renders one colour's SGR parameters, downgrading truecolour
// to 256-colour or the client's advertised ceiling.
func colorParams(c grid.Color, caps proto.CapFlags, background bool) []string {
	if c.IsDefault() {
		return nil
	}
	base := 30
	if background {
		base = 40
	}

	switch c.Mode {
	case grid.ColorRGB:
		if caps&proto.CapTrueColor != 0 {
			sub := "38"
			if background {
				sub = "48"
			}
			return []string{sub, "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
		}
		return colorParams(grid.IndexedColor(downsampleRGB(c)), caps, background)
	case grid.ColorIndexed:
		if caps&proto.Cap256Color != 0 {
			sub := "38"
			if background {
				sub = "48"
			}
			return []string{sub, "5", strconv.Itoa(int(c.Index))}
		}
		// No 256-colour support: fold the palette entry into the basic
		// 8/16-colour range the client is assumed to understand.
		n := int(c.Index) % 8
		bright := c.Index >= 8 && c.Index < 16
		code := base + n
		if bright {
			code += 60
		}
		return []string{strconv.Itoa(code)}
	}
	return nil
}

// downsampleRGB maps a truecolour value to the nearest xterm 256-colour
// palette index for clients that only advertised Cap256Color.
func downsampleRGB(c grid.Color) int {
	// 6x6x6 colour cube, indices 16-231; this is the standard xterm
	// mapping, not a perceptual nearest-colour search.
	toCube := func(v uint8) int {
		if v < 48 {
			return 0
		}
		if v < 115 {
			return 1
		}
		return int((v - 35) / 40)
	}
	r, g, b := toCube(c.R), toCube(c.G), toCube(c.B)
	return 16 + 36*r + 6*g + b
}
