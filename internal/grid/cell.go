package grid

// maxClusterBytes bounds a cell's displayed grapheme cluster: a base
// character plus as many combining marks as fit, UTF-8 encoded.
const maxClusterBytes = 9

// Cell is one visible character position: colours, an attribute bitset, a
// grid-layout flag set, and the displayed grapheme cluster.
//
// A wide cell occupies two adjacent cells on the same line; the second is
// marked FlagPadding and must never be written independently of its partner
// - overwriting either releases both (see Line.SetCell).
type Cell struct {
	Fg, Bg Color
	Attrs  Attr
	Flags  CellFlags

	cluster [maxClusterBytes]byte
	clen    uint8
}

// Blank is the default cell: a single space, no attributes, default
// colours.
var Blank = NewCell(" ")

// NewCell returns a cell holding the given grapheme cluster (normally a
// single rune, occasionally a base rune with combining marks already
// attached). Clusters longer than the cap are truncated.
func NewCell(cluster string) Cell {
	var c Cell
	c.SetCluster(cluster)
	return c
}

// Cluster returns the cell's displayed grapheme cluster as a string.
func (c *Cell) Cluster() string {
	return string(c.cluster[:c.clen])
}

// SetCluster replaces the cell's grapheme cluster wholesale, truncating to
// the byte cap.
func (c *Cell) SetCluster(s string) {
	n := len(s)
	if n > maxClusterBytes {
		n = maxClusterBytes
	}
	copy(c.cluster[:], s[:n])
	c.clen = uint8(n)
}

// AppendCombining appends a combining mark's bytes to the cell's cluster,
// up to the byte cap; marks beyond the cap are silently discarded.
func (c *Cell) AppendCombining(mark string) bool {
	room := maxClusterBytes - int(c.clen)
	if room <= 0 {
		return false
	}
	n := len(mark)
	if n > room {
		n = room
	}
	copy(c.cluster[c.clen:], mark[:n])
	c.clen += uint8(n)
	c.Flags |= FlagCombinedOver
	return n == len(mark)
}

// IsBlank reports whether the cell is exactly the default blank cell (used
// by Line's trailing-cell trimming).
func (c *Cell) IsBlank() bool {
	return c.clen == 1 && c.cluster[0] == ' ' && c.Attrs == 0 && c.Flags == 0 &&
		c.Fg == DefaultColor && c.Bg == DefaultColor
}

// Reset restores the cell to the default blank state.
func (c *Cell) Reset() {
	*c = Blank
}
