package mux

// Session owns a set of winlinks indexed by window slot, plus a
// most-recently-used stack for select_window's "previous" semantics.
type Session struct {
	ID   ID
	Name string

	Sx, Sy int

	Winlinks map[int]*Winlink
	Current  int

	lastUsed []int // stack of previously-selected indices, most recent last
}

func newSession(id ID, name string, sx, sy int) *Session {
	return &Session{
		ID:       id,
		Name:     name,
		Sx:       sx,
		Sy:       sy,
		Winlinks: make(map[int]*Winlink),
		Current:  -1,
	}
}

// nextIndex returns the lowest free window index >= base.
func (s *Session) nextIndex(base int) int {
	for i := base; ; i++ {
		if _, ok := s.Winlinks[i]; !ok {
			return i
		}
	}
}

func (s *Session) pushCurrent() {
	if s.Current < 0 {
		return
	}
	s.lastUsed = append(s.lastUsed, s.Current)
}

// popLastUsed returns and removes the most recent previously-selected
// index still present in Winlinks, or -1 if none remain.
func (s *Session) popLastUsed() int {
	for len(s.lastUsed) > 0 {
		idx := s.lastUsed[len(s.lastUsed)-1]
		s.lastUsed = s.lastUsed[:len(s.lastUsed)-1]
		if _, ok := s.Winlinks[idx]; ok {
			return idx
		}
	}
	return -1
}
