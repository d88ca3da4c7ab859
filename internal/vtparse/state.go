// Package vtparse implements the table-driven ANSI/VT state machine that
// turns a pty's raw byte stream into terminal operations. It has no
// knowledge of a grid: it only classifies bytes and calls back into a
// Performer (see perform.go). The state/action split and table-building
// approach is grounded on the classic Paul Williams VT500 parser that the
// pack's VT emulation dependencies (danielgatis/go-vte, used transitively by
// danielgatis-go-headless-term) implement; see DESIGN.md.
package vtparse

// state identifies one node of the parser state machine. Every state owns
// a 256-entry action table (built by init below) plus an explicit anywhere
// transition set (CAN/SUB/ESC/C1) applied before the state's own table.
type state uint8

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
	stateUtf8Cont // no table enters it; Parser.utf8Len tracks a mid UTF-8 sequence
	numStates
)

// action identifies what the parser does with a byte once classified by a
// state's table. Actions are the parser's internal vocabulary; they are
// translated into the higher-level Operation events (Print, CursorUp, ...)
// by the Performer in ops.go.
type action uint8

const (
	actionNone action = iota
	actionIgnore
	actionPrint
	actionExecute       // C0/C1 control function, dispatch immediately
	actionClear         // clear params/intermediates, entering a new sequence
	actionCollect       // collect an intermediate byte
	actionParam         // collect a parameter digit or separator
	actionEscDispatch   // dispatch a two/three-char escape sequence
	actionCsiDispatch   // dispatch a CSI sequence
	actionHook          // enter DCS passthrough, dispatch hook
	actionPut           // DCS data byte
	actionUnhook        // leave DCS passthrough
	actionOscStart
	actionOscPut
	actionOscEnd
	actionIgnoreString // no table produces it; payload overflow is flagged as truncation
)

// transition pairs the action to take with the state to move to.
type transition struct {
	act  action
	next state
}

// tables[state][byte] gives the transition for that byte in that state,
// already folded with the state-independent "anywhere" rules (CAN, SUB,
// ESC, and the C1 aliases for 0x80-0x9F). Built once at init time instead
// of being hand-written literally: 15 states * 256 bytes is large to spell
// out by hand and the construction rules below are exactly the rules a
// hand table would encode.
var tables [numStates][256]transition

func init() {
	buildGroundTable()
	buildEscapeTables()
	buildCsiTables()
	buildDcsTables()
	buildStringTables()
	applyAnywhereRules()
}

func fill(t *[256]transition, lo, hi byte, tr transition) {
	for b := int(lo); b <= int(hi); b++ {
		t[b] = tr
	}
}

func buildGroundTable() {
	t := &tables[stateGround]
	fill(t, 0x00, 0xFF, transition{actionPrint, stateGround})
	fill(t, 0x00, 0x1F, transition{actionExecute, stateGround})
	t[0x7F] = transition{actionIgnore, stateGround}
}

func buildEscapeTables() {
	// escape: just after ESC.
	e := &tables[stateEscape]
	fill(e, 0x00, 0x1F, transition{actionExecute, stateEscape})
	fill(e, 0x20, 0x2F, transition{actionCollect, stateEscapeIntermediate})
	fill(e, 0x30, 0x4F, transition{actionEscDispatch, stateGround})
	fill(e, 0x50, 0x50, transition{actionClear, stateDcsEntry}) // DCS
	fill(e, 0x51, 0x57, transition{actionEscDispatch, stateGround})
	e[0x58] = transition{actionClear, stateSosPmApcString} // SOS
	fill(e, 0x59, 0x5A, transition{actionEscDispatch, stateGround})
	e[0x5B] = transition{actionClear, stateCsiEntry} // CSI
	e[0x5C] = transition{actionEscDispatch, stateGround} // ST, handled as no-op dispatch
	e[0x5D] = transition{actionOscStart, stateOscString} // OSC
	e[0x5E] = transition{actionClear, stateSosPmApcString} // PM
	e[0x5F] = transition{actionClear, stateSosPmApcString} // APC
	fill(e, 0x60, 0x7E, transition{actionEscDispatch, stateGround})
	e[0x7F] = transition{actionIgnore, stateEscape}

	// escape_intermediate: collecting 0x20-0x2F bytes after ESC.
	ei := &tables[stateEscapeIntermediate]
	fill(ei, 0x00, 0x1F, transition{actionExecute, stateEscapeIntermediate})
	fill(ei, 0x20, 0x2F, transition{actionCollect, stateEscapeIntermediate})
	fill(ei, 0x30, 0x7E, transition{actionEscDispatch, stateGround})
	ei[0x7F] = transition{actionIgnore, stateEscapeIntermediate}
}

func buildCsiTables() {
	entry := &tables[stateCsiEntry]
	fill(entry, 0x00, 0x1F, transition{actionExecute, stateCsiEntry})
	fill(entry, 0x20, 0x2F, transition{actionCollect, stateCsiIntermediate})
	fill(entry, 0x30, 0x39, transition{actionParam, stateCsiParam})
	entry[0x3A] = transition{actionParam, stateCsiParam} // sub-parameter separator
	entry[0x3B] = transition{actionParam, stateCsiParam}
	fill(entry, 0x3C, 0x3F, transition{actionCollect, stateCsiParam}) // private markers ? > = !
	fill(entry, 0x40, 0x7E, transition{actionCsiDispatch, stateGround})
	entry[0x7F] = transition{actionIgnore, stateCsiEntry}

	param := &tables[stateCsiParam]
	fill(param, 0x00, 0x1F, transition{actionExecute, stateCsiParam})
	fill(param, 0x20, 0x2F, transition{actionCollect, stateCsiIntermediate})
	fill(param, 0x30, 0x39, transition{actionParam, stateCsiParam})
	param[0x3A] = transition{actionParam, stateCsiParam}
	param[0x3B] = transition{actionParam, stateCsiParam}
	fill(param, 0x3C, 0x3F, transition{actionIgnore, stateCsiIgnore}) // illegal mid-param marker
	fill(param, 0x40, 0x7E, transition{actionCsiDispatch, stateGround})
	param[0x7F] = transition{actionIgnore, stateCsiParam}

	inter := &tables[stateCsiIntermediate]
	fill(inter, 0x00, 0x1F, transition{actionExecute, stateCsiIntermediate})
	fill(inter, 0x20, 0x2F, transition{actionCollect, stateCsiIntermediate})
	fill(inter, 0x30, 0x3F, transition{actionIgnore, stateCsiIgnore})
	fill(inter, 0x40, 0x7E, transition{actionCsiDispatch, stateGround})
	inter[0x7F] = transition{actionIgnore, stateCsiIntermediate}

	ign := &tables[stateCsiIgnore]
	fill(ign, 0x00, 0x1F, transition{actionExecute, stateCsiIgnore})
	fill(ign, 0x20, 0x3F, transition{actionIgnore, stateCsiIgnore})
	fill(ign, 0x40, 0x7E, transition{actionNone, stateGround})
	ign[0x7F] = transition{actionIgnore, stateCsiIgnore}
}

func buildDcsTables() {
	entry := &tables[stateDcsEntry]
	fill(entry, 0x00, 0x1F, transition{actionIgnore, stateDcsEntry})
	fill(entry, 0x20, 0x2F, transition{actionCollect, stateDcsIntermediate})
	fill(entry, 0x30, 0x39, transition{actionParam, stateDcsParam})
	entry[0x3A] = transition{actionParam, stateDcsParam}
	entry[0x3B] = transition{actionParam, stateDcsParam}
	fill(entry, 0x3C, 0x3F, transition{actionCollect, stateDcsParam})
	fill(entry, 0x40, 0x7E, transition{actionHook, stateDcsPassthrough})
	entry[0x7F] = transition{actionIgnore, stateDcsEntry}

	param := &tables[stateDcsParam]
	fill(param, 0x00, 0x1F, transition{actionIgnore, stateDcsParam})
	fill(param, 0x20, 0x2F, transition{actionCollect, stateDcsIntermediate})
	fill(param, 0x30, 0x39, transition{actionParam, stateDcsParam})
	param[0x3A] = transition{actionParam, stateDcsParam}
	param[0x3B] = transition{actionParam, stateDcsParam}
	fill(param, 0x3C, 0x3F, transition{actionIgnore, stateDcsIgnore})
	fill(param, 0x40, 0x7E, transition{actionHook, stateDcsPassthrough})
	param[0x7F] = transition{actionIgnore, stateDcsParam}

	inter := &tables[stateDcsIntermediate]
	fill(inter, 0x00, 0x1F, transition{actionIgnore, stateDcsIntermediate})
	fill(inter, 0x20, 0x2F, transition{actionCollect, stateDcsIntermediate})
	fill(inter, 0x30, 0x3F, transition{actionIgnore, stateDcsIgnore})
	fill(inter, 0x40, 0x7E, transition{actionHook, stateDcsPassthrough})
	inter[0x7F] = transition{actionIgnore, stateDcsIntermediate}

	pass := &tables[stateDcsPassthrough]
	fill(pass, 0x00, 0x1F, transition{actionPut, stateDcsPassthrough})
	fill(pass, 0x20, 0x7E, transition{actionPut, stateDcsPassthrough})
	pass[0x7F] = transition{actionIgnore, stateDcsPassthrough}

	ign := &tables[stateDcsIgnore]
	fill(ign, 0x00, 0xFF, transition{actionIgnore, stateDcsIgnore})
}

func buildStringTables() {
	osc := &tables[stateOscString]
	fill(osc, 0x00, 0x06, transition{actionIgnore, stateOscString})
	osc[0x07] = transition{actionOscEnd, stateGround} // BEL terminates OSC only
	fill(osc, 0x08, 0x1F, transition{actionIgnore, stateOscString})
	fill(osc, 0x20, 0xFF, transition{actionOscPut, stateOscString})

	sos := &tables[stateSosPmApcString]
	fill(sos, 0x00, 0xFF, transition{actionIgnore, stateSosPmApcString})
}

// applyAnywhereRules overlays the state-independent transitions that apply
// regardless of the current state: CAN/SUB abort to ground, ESC restarts a
// new escape sequence, and the 0x80-0x9F range aliases to the C1 controls'
// equivalent ESC-prefixed forms (DCS/CSI/OSC/SOS/PM/APC introducers, plus
// IND/NEL/HTS/RI/SS2/SS3 dispatched immediately). The one exception the
// tables cannot express is ESC seen while collecting a DCS/OSC/SOS/PM/APC
// string, which must peek at the following byte to decide between "that was
// really ST" and "the application abandoned the string and started a fresh
// escape" — parser.go handles that case explicitly before consulting these
// tables. 0x9C (the 8-bit form of ST) needs no such peek and terminates a
// string directly, so it is handled here.
func applyAnywhereRules() {
	for s := state(0); s < numStates; s++ {
		if s == stateDcsPassthrough {
			tables[s][0x18] = transition{actionUnhook, stateGround}
			tables[s][0x1A] = transition{actionUnhook, stateGround}
		} else if s == stateOscString || s == stateSosPmApcString {
			tables[s][0x18] = transition{actionNone, stateGround}
			tables[s][0x1A] = transition{actionNone, stateGround}
		} else {
			tables[s][0x18] = transition{actionExecute, stateGround}
			tables[s][0x1A] = transition{actionExecute, stateGround}
		}
		if s != stateOscString && s != stateSosPmApcString && s != stateDcsPassthrough {
			tables[s][0x1B] = transition{actionClear, stateEscape}
		}

		// Inside OSC/SOS-PM-APC/DCS-passthrough payload collection, 0x80-0xBF
		// bytes are frequently UTF-8 continuation bytes belonging to the
		// payload's text, not raw C1 controls: only 0x9C (ST) gets a special
		// meaning there, and everything else keeps the plain data-byte
		// transition already built by buildStringTables/buildDcsTables.
		if s == stateOscString || s == stateSosPmApcString || s == stateDcsPassthrough {
			tables[s][0x9C] = c1Transition(s, 0x9C)
			continue
		}

		for c1 := 0x80; c1 <= 0x9F; c1++ {
			tables[s][c1] = c1Transition(s, byte(c1))
		}
	}
}

// c1Transition gives the transition for an 0x80-0x9F byte seen in state s.
func c1Transition(s state, c1 byte) transition {
	switch c1 {
	case 0x90: // DCS
		return transition{actionClear, stateDcsEntry}
	case 0x9B: // CSI
		return transition{actionClear, stateCsiEntry}
	case 0x9D: // OSC
		return transition{actionOscStart, stateOscString}
	case 0x98, 0x9E, 0x9F: // SOS, PM, APC
		return transition{actionClear, stateSosPmApcString}
	case 0x9C: // ST
		switch s {
		case stateOscString:
			return transition{actionOscEnd, stateGround}
		case stateDcsPassthrough:
			return transition{actionUnhook, stateGround}
		default:
			return transition{actionNone, stateGround}
		}
	default:
		return transition{actionExecute, stateGround}
	}
}
