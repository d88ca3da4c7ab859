package grid

// applySGR applies a fully-expanded SGR parameter list (as produced by
// vtparse.Dispatcher's dispatchSGR, where 38/48 truecolour/indexed forms
// are already flattened to [target, mode, components...]) to the screen's
// pending rendition state.
func (w *Writer) applySGR(params []int) {
	s := w.active
	if len(params) == 0 {
		s.Fg, s.Bg, s.Attrs = DefaultColor, DefaultColor, 0
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s.Fg, s.Bg, s.Attrs = DefaultColor, DefaultColor, 0
		case p == 1:
			s.Attrs |= AttrBright
		case p == 2:
			s.Attrs |= AttrDim
		case p == 3:
			s.Attrs |= AttrItalic
		case p == 4:
			s.Attrs |= AttrUnderline
		case p == 5 || p == 6:
			s.Attrs |= AttrBlink
		case p == 7:
			s.Attrs |= AttrReverse
		case p == 8:
			s.Attrs |= AttrHidden
		case p == 9:
			s.Attrs |= AttrStrikethrough
		case p == 21:
			s.Attrs |= AttrDoubleUnderline
		case p == 22:
			s.Attrs &^= AttrBright | AttrDim
		case p == 23:
			s.Attrs &^= AttrItalic
		case p == 24:
			s.Attrs &^= AttrUnderline | AttrDoubleUnderline
		case p == 25:
			s.Attrs &^= AttrBlink
		case p == 27:
			s.Attrs &^= AttrReverse
		case p == 28:
			s.Attrs &^= AttrHidden
		case p == 29:
			s.Attrs &^= AttrStrikethrough
		case p >= 30 && p <= 37:
			s.Fg = IndexedColor(p - 30)
		case p == 38:
			i += w.consumeExtendedColor(params[i:], &s.Fg)
		case p == 39:
			s.Fg = DefaultColor
		case p >= 40 && p <= 47:
			s.Bg = IndexedColor(p - 40)
		case p == 48:
			i += w.consumeExtendedColor(params[i:], &s.Bg)
		case p == 49:
			s.Bg = DefaultColor
		case p >= 90 && p <= 97:
			s.Fg = IndexedColor(p - 90 + 8)
		case p >= 100 && p <= 107:
			s.Bg = IndexedColor(p - 100 + 8)
		}
	}
}

// consumeExtendedColor reads a [38/48, mode, components...] run starting at
// rest[0] and assigns the resulting colour to dst, returning how many
// additional entries (beyond the 38/48 itself) were consumed.
func (w *Writer) consumeExtendedColor(rest []int, dst *Color) int {
	if len(rest) < 2 {
		return 0
	}
	switch rest[1] {
	case 2:
		if len(rest) >= 5 {
			*dst = RGBColor(rest[2], rest[3], rest[4])
			return 4
		}
	case 5:
		if len(rest) >= 3 {
			*dst = IndexedColor(rest[2])
			return 2
		}
	}
	return 1
}
