package vtparse

import "github.com/mattn/go-runewidth"

// runeWidth returns the terminal column width vtparse reports alongside a
// decoded rune. Combining marks are clustered onto the previous cell by
// internal/grid, not here; this only needs to tell a wide CJK rune apart
// from a normal one so Screen can reserve the padding cell.
func runeWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return 0
	}
	return w
}
