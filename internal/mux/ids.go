package mux

import "github.com/google/uuid"

// ID identifies an arena-held entity (window, pane, session) independent of
// any pointer graph, so cyclic references (winlink -> window -> panes ->
// window) become plain map lookups instead of reference cycles.
type ID uuid.UUID

var NilID ID

func newID() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

func parseIDString(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, err
	}
	return ID(u), nil
}
