package render

import (
	"bytes"
	"fmt"

	"zmux/internal/grid"
	"zmux/internal/mux"
	"zmux/internal/proto"
)

// writeSixels re-emits or placeholders every sixel image anchored in
// leaf's screen, after the cell pass so images draw over their anchor
// cell's placeholder glyph. Per spec.md §4.6: pass the image through when
// the client advertised sixel support, otherwise draw a boxed placeholder
// with the first cell marked.
func (r *Renderer) writeSixels(buf *bytes.Buffer, leaf *mux.LayoutCell, screen *grid.Screen) {
	for pos, img := range screen.Sixels {
		if pos.X >= leaf.Sx || pos.Y >= leaf.Sy {
			continue
		}
		row, col := leaf.Yoff+pos.Y+1, leaf.Xoff+pos.X+1
		if r.Target.Caps&proto.CapSixel != 0 {
			fmt.Fprintf(buf, "\033[%d;%dH", row, col)
			buf.WriteString("\033Pq")
			buf.Write(img.Payload)
			buf.WriteString("\033\\")
			continue
		}
		for y := 0; y < img.Rows; y++ {
			fmt.Fprintf(buf, "\033[%d;%dH", row+y, col)
			for x := 0; x < img.Cols; x++ {
				if x == 0 && y == 0 {
					buf.WriteString("\033[7m#\033[0m")
				} else {
					buf.WriteString("\033[7m \033[0m")
				}
			}
		}
	}
}
