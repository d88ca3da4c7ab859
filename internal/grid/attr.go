package grid

// Attr is the SGR attribute bitset carried by a cell, separate from its
// colours and from CellFlags (which describe grid-layout facts like
// wide/padding rather than rendering style).
type Attr uint16

const (
	AttrBright Attr = 1 << iota
	AttrDim
	AttrUnderline
	AttrDoubleUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrItalic
	AttrAlternateCharset
	AttrStrikethrough
)

// CellFlags records grid-layout facts about a cell that are not part of its
// SGR rendition.
type CellFlags uint8

const (
	// FlagWide marks the left half of a two-column grapheme; the cell to
	// its right is FlagPadding.
	FlagWide CellFlags = 1 << iota
	// FlagPadding marks the right half of a wide cell. Must never be
	// written independently of its partner.
	FlagPadding
	// FlagCombinedOver marks a cell whose grapheme cluster had combining
	// marks appended after the base character was written.
	FlagCombinedOver
)
