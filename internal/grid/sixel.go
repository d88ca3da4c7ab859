package grid

// SixelImage anchors a DCS sixel payload at the cell it was drawn from.
// Cols/Rows are the image's cell footprint; since the raster-attributes
// header inside the payload (which carries the true pixel dimensions) is
// left to a decoder the core does not include, footprint is approximated
// as one cell until a renderer that actually rasterizes sixel data
// replaces this. Rendering falls back to a boxed placeholder otherwise
// (spec.md §4.6).
type SixelImage struct {
	Payload    []byte
	Background int
	Cols, Rows int
}

// PlaceSixel records ev's payload anchored at the current cursor cell,
// overwriting any image already anchored there.
func (s *Screen) PlaceSixel(payload []byte, background int) {
	if s.Sixels == nil {
		s.Sixels = make(map[Position]SixelImage)
	}
	s.Sixels[Position{s.CX, s.CY}] = SixelImage{
		Payload:    payload,
		Background: background,
		Cols:       1,
		Rows:       1,
	}
}
