package vtparse

// Performer receives the low-level dispatch callbacks from Parser.Advance.
// It is the seam between the raw state machine and a higher-level
// vocabulary of terminal operations; Dispatcher (in ops.go) is the
// Performer that screen-write actually uses, translating these calls into
// the named Operation events described in the spec (Print, CursorUp,
// EraseLine, SelectGraphicRendition, ...).
//
// Params carries CSI/DCS numeric parameters; sub-parameters separated by
// ':' are represented as consecutive entries with subOf[i] pointing at the
// index of the parameter they qualify (or -1 for a top-level parameter).
type Performer interface {
	// Print is called for each printable grapheme cluster in ground state.
	// width is its terminal column width (0 for combining marks).
	Print(cluster string, width int)

	// Execute is called for a single C0/C1 control function (codes below
	// 0x20, plus the 0x80-0x9F range when fed directly; DEL is ignored).
	Execute(b byte)

	// EscDispatch is called for a complete escape sequence (ESC plus
	// collected intermediates plus the final byte).
	EscDispatch(intermediates []byte, final byte)

	// CsiDispatch is called for a complete CSI sequence.
	CsiDispatch(params *Params, intermediates []byte, final byte)

	// Hook/Put/Unhook bracket a DCS string: Hook on entry (with the
	// params/intermediates/final that introduced it), Put for each data
	// byte, Unhook when the string terminates (ST, CAN, SUB, or an ESC that
	// starts a new sequence). Overflow does not unhook; it marks the
	// payload truncated.
	Hook(params *Params, intermediates []byte, final byte)
	Put(b byte)
	Unhook()

	// OscStart/OscPut/OscEnd bracket an OSC string. truncated is true if
	// the payload exceeded the capacity cap before termination.
	OscStart()
	OscPut(b byte)
	OscEnd(truncated bool)
}

// Params holds up to maxParams numeric CSI/DCS parameters, with colon
// sub-parameters folded in as extra entries flagged via SubOf.
type Params struct {
	values []int32
	subOf  []int16 // -1 for a top-level parameter, else index of its parent
}

const maxParams = 16

// Len returns the number of collected parameters (top-level + sub).
func (p *Params) Len() int { return len(p.values) }

// Get returns the i'th parameter value, or def if i is out of range. An
// empty parameter between separators (the first one in ";5") is stored
// as 0, so Get returns 0 for it rather than def.
func (p *Params) Get(i int, def int) int {
	if i < 0 || i >= len(p.values) {
		return def
	}
	return int(p.values[i])
}

// IsSub reports whether parameter i is a colon-separated sub-parameter of
// the parameter before it (used by SGR's truecolour/indexed forms).
func (p *Params) IsSub(i int) bool {
	if i < 0 || i >= len(p.subOf) {
		return false
	}
	return p.subOf[i] >= 0
}

// All returns the raw parameter slice for callers that want to walk it
// directly (SGR parsing does this).
func (p *Params) All() []int32 { return p.values }

func (p *Params) reset() {
	p.values = p.values[:0]
	p.subOf = p.subOf[:0]
}
