package vtparse

// dispatchCSI turns one complete CSI sequence into Sink events. intermediates
// holds any collected 0x20-0x2F bytes (unused by the sequences this core
// cares about except ' ' for some DEC extensions); the private-marker bytes
// '?', '>', '=', '!' arrive as intermediates too since csi_entry routes them
// through actionCollect.
func (d *Dispatcher) dispatchCSI(params *Params, intermediates []byte, final byte) {
	private := csiPrivateMarker(intermediates)

	switch final {
	case 'A':
		d.emit(Event{Op: OpCursorUp, N: []int{params.Get(0, 1)}})
	case 'B':
		d.emit(Event{Op: OpCursorDown, N: []int{params.Get(0, 1)}})
	case 'C', 'a':
		d.emit(Event{Op: OpCursorForward, N: []int{params.Get(0, 1)}})
	case 'D':
		d.emit(Event{Op: OpCursorBackward, N: []int{params.Get(0, 1)}})
	case 'E':
		d.emit(Event{Op: OpNextLine, N: []int{params.Get(0, 1)}})
	case 'F':
		d.emit(Event{Op: OpPreviousLine, N: []int{params.Get(0, 1)}})
	case 'G', '`':
		d.emit(Event{Op: OpHorizontalAbsolute, N: []int{params.Get(0, 1)}})
	case 'd':
		d.emit(Event{Op: OpVerticalAbsolute, N: []int{params.Get(0, 1)}})
	case 'H', 'f':
		d.emit(Event{Op: OpCursorPosition, N: []int{params.Get(0, 1), params.Get(1, 1)}})
	case 'I':
		d.emit(Event{Op: OpHorizontalTabulation, N: []int{params.Get(0, 1)}})
	case 'Z': // CBT, back-tab
		d.emit(Event{Op: OpHorizontalTabulation, N: []int{-params.Get(0, 1)}})

	case 'J':
		d.emit(Event{Op: OpEraseDisplay, N: []int{csiEraseMode(params)}})
	case 'K':
		d.emit(Event{Op: OpEraseLine, N: []int{csiEraseMode(params)}})
	case 'X':
		d.emit(Event{Op: OpEraseCharacter, N: []int{params.Get(0, 1)}})

	case 'L':
		d.emit(Event{Op: OpInsertLine, N: []int{params.Get(0, 1)}})
	case 'M':
		d.emit(Event{Op: OpDeleteLine, N: []int{params.Get(0, 1)}})
	case '@':
		d.emit(Event{Op: OpInsertCharacter, N: []int{params.Get(0, 1)}})
	case 'P':
		d.emit(Event{Op: OpDeleteCharacter, N: []int{params.Get(0, 1)}})
	case 'S':
		d.emit(Event{Op: OpScrollUp, N: []int{params.Get(0, 1)}})
	case 'T':
		d.emit(Event{Op: OpScrollDown, N: []int{params.Get(0, 1)}})

	case 'm':
		d.dispatchSGR(params)

	case 'h':
		d.dispatchModeSet(params, private, true)
	case 'l':
		d.dispatchModeSet(params, private, false)

	case 'c':
		if private == '>' {
			d.emit(Event{Op: OpSecondaryDeviceAttributes, N: paramsAll(params)})
		} else {
			d.emit(Event{Op: OpDeviceAttributes, N: paramsAll(params)})
		}
	case 'n':
		switch params.Get(0, 0) {
		case 6:
			d.emit(Event{Op: OpCursorPositionReport})
		default:
			d.emit(Event{Op: OpDeviceStatusReport, N: []int{params.Get(0, 0)}})
		}
	case 'g':
		d.emit(Event{Op: OpTabClear, N: []int{params.Get(0, 0)}})
	case 's':
		if private == 0 {
			d.emit(Event{Op: OpSaveCursor})
		}
	case 'u':
		if private == 0 {
			d.emit(Event{Op: OpRestoreCursor})
		}
	case 'p':
		if private == '$' {
			d.emit(Event{Op: OpRequestMode, N: []int{params.Get(0, 0)}})
		}
	case 'y':
		if private == '$' {
			d.emit(Event{Op: OpReportMode, N: []int{params.Get(0, 0)}})
		}
	}
}

// csiPrivateMarker returns the single private-marker byte ('?', '>', '=',
// '!', '$') collected as an intermediate for this sequence, or 0 if none.
func csiPrivateMarker(intermediates []byte) byte {
	for _, b := range intermediates {
		switch b {
		case '?', '>', '=', '!', '$':
			return b
		}
	}
	return 0
}

func csiEraseMode(params *Params) int {
	switch params.Get(0, 0) {
	case 1:
		return int(EraseFromStart)
	case 2:
		return int(EraseAll)
	case 3:
		return int(EraseScrollback)
	default:
		return int(EraseToEnd)
	}
}

func (d *Dispatcher) dispatchModeSet(params *Params, private byte, set bool) {
	op := OpSetMode
	if !set {
		op = OpResetMode
	}
	if private == '?' {
		op = OpDecPrivateSet
		if !set {
			op = OpDecPrivateReset
		}
	}
	d.emit(Event{Op: op, N: paramsAll(params)})
}

func paramsAll(p *Params) []int {
	out := make([]int, p.Len())
	for i := range out {
		out[i] = p.Get(i, 0)
	}
	return out
}
