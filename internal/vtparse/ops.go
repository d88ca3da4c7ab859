package vtparse

// Op identifies a terminal operation produced from a dispatched escape, CSI,
// or control byte. Dispatcher normalizes every CsiDispatch/EscDispatch/
// Execute callback down to this vocabulary; internal/grid's screen-write
// layer is the consumer.
type Op int

const (
	OpNone Op = iota

	// Cursor motion.
	OpCursorUp
	OpCursorDown
	OpCursorForward
	OpCursorBackward
	OpNextLine
	OpPreviousLine
	OpHorizontalAbsolute
	OpVerticalAbsolute
	OpCursorPosition
	OpHorizontalTabulation
	OpBackspace
	OpCarriageReturn
	OpLineFeed
	OpReverseIndex
	OpIndex

	// Erase.
	OpEraseLine
	OpEraseDisplay
	OpEraseCharacter

	// Edit.
	OpInsertLine
	OpDeleteLine
	OpInsertCharacter
	OpDeleteCharacter
	OpScrollUp
	OpScrollDown

	// Attributes.
	OpSelectGraphicRendition

	// Modes.
	OpSetMode
	OpResetMode
	OpDecPrivateSet
	OpDecPrivateReset

	// Strings (payload delivered via the Event.Payload field).
	OpOperatingSystemCommand
	OpDeviceControlString
	OpApplicationProgramCommand
	OpPrivacyMessage
	OpStartOfString
	OpSixel

	// Character sets.
	OpDesignateG0
	OpDesignateG1
	OpDesignateG2
	OpDesignateG3
	OpLockingShiftN
	OpSingleShift2
	OpSingleShift3

	// Request/report.
	OpDeviceAttributes
	OpDeviceStatusReport
	OpCursorPositionReport
	OpPrimaryDeviceAttributes
	OpSecondaryDeviceAttributes

	// Misc.
	OpBell
	OpEnquiry
	OpShiftOut
	OpShiftIn
	OpSaveCursor
	OpRestoreCursor
	OpTabSet
	OpTabClear
	OpRequestMode
	OpReportMode
)

// EraseMode is the argument to OpEraseLine/OpEraseDisplay.
type EraseMode int

const (
	EraseToEnd EraseMode = iota
	EraseFromStart
	EraseAll
	EraseScrollback
)

// Event is the normalized result of one dispatched sequence, handed to a
// Sink (defined below) by Dispatcher.
type Event struct {
	Op           Op
	N            []int  // numeric arguments, meaning depends on Op
	Payload      []byte // OSC/DCS/APC/PM/SOS/Sixel payload; nil otherwise
	LockingShift int     // for OpLockingShiftN: which G-set (0-3) to lock into GL
	Charset      Charset // for OpDesignateGn
	Truncated    bool    // payload exceeded the capacity cap
}

// Sink receives normalized Events and printable clusters. It is the
// screen-write layer's seam into the parser; Dispatcher is the Performer
// that produces these from raw dispatch callbacks.
type Sink interface {
	// Print is called for each printable grapheme cluster, separately from
	// HandleEvent since it is by far the highest-volume callback.
	Print(cluster string, width int)
	HandleEvent(Event)
}

// Dispatcher implements Performer, translating raw state-machine callbacks
// into Sink events. One Dispatcher (wrapping one Parser) is owned by exactly
// one pane.
type Dispatcher struct {
	Sink Sink

	oscBuf []byte

	dcsParams    Params
	dcsInter     []byte
	dcsFinal     byte
	dcsBuf       []byte
	dcsTruncated bool
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{Sink: sink}
}

func (d *Dispatcher) emit(ev Event) {
	d.Sink.HandleEvent(ev)
}

func (d *Dispatcher) Print(cluster string, width int) {
	d.Sink.Print(cluster, width)
}

// Execute handles C0/C1 control codes dispatched outside of any sequence.
func (d *Dispatcher) Execute(b byte) {
	switch b {
	case 0x07:
		d.emit(Event{Op: OpBell})
	case 0x08:
		d.emit(Event{Op: OpBackspace})
	case 0x09:
		d.emit(Event{Op: OpHorizontalTabulation})
	case 0x0A, 0x0B, 0x0C:
		d.emit(Event{Op: OpLineFeed})
	case 0x0D:
		d.emit(Event{Op: OpCarriageReturn})
	case 0x0E:
		d.emit(Event{Op: OpShiftOut})
	case 0x0F:
		d.emit(Event{Op: OpShiftIn})
	case 0x84: // IND
		d.emit(Event{Op: OpIndex})
	case 0x85: // NEL
		d.emit(Event{Op: OpNextLine})
	case 0x88: // HTS
		d.emit(Event{Op: OpTabSet})
	case 0x8D: // RI
		d.emit(Event{Op: OpReverseIndex})
	case 0x8E: // SS2
		d.emit(Event{Op: OpSingleShift2})
	case 0x8F: // SS3
		d.emit(Event{Op: OpSingleShift3})
	case 0x05:
		d.emit(Event{Op: OpEnquiry})
	}
}

func (d *Dispatcher) EscDispatch(intermediates []byte, final byte) {
	if len(intermediates) == 0 {
		switch final {
		case 'D':
			d.emit(Event{Op: OpIndex})
		case 'E':
			d.emit(Event{Op: OpNextLine})
		case 'H':
			d.emit(Event{Op: OpTabSet})
		case 'M':
			d.emit(Event{Op: OpReverseIndex})
		case '7':
			d.emit(Event{Op: OpSaveCursor})
		case '8':
			d.emit(Event{Op: OpRestoreCursor})
		case 'c':
			d.emit(Event{Op: OpPrimaryDeviceAttributes})
		case '=': // DECKPAM, application keypad: forwarded as a mode set
			d.emit(Event{Op: OpDecPrivateSet, N: []int{1}})
		case '>': // DECKPNM, normal keypad
			d.emit(Event{Op: OpDecPrivateReset, N: []int{1}})
		case 'n':
			d.emit(Event{Op: OpLockingShiftN, LockingShift: 2})
		case 'o':
			d.emit(Event{Op: OpLockingShiftN, LockingShift: 3})
		case '~':
			d.emit(Event{Op: OpLockingShiftN, LockingShift: 1})
		case 'N':
			d.emit(Event{Op: OpSingleShift2})
		case 'O':
			d.emit(Event{Op: OpSingleShift3})
		}
		return
	}
	d.dispatchCharsetDesignate(intermediates, final)
}

func (d *Dispatcher) CsiDispatch(params *Params, intermediates []byte, final byte) {
	d.dispatchCSI(params, intermediates, final)
}

func (d *Dispatcher) Hook(params *Params, intermediates []byte, final byte) {
	// DCS payload collection begins; Put feeds the bytes, Unhook closes it.
	// Unhook hands the payload to dispatchDCS (sixel.go), which treats a
	// 'q' final byte as a Sixel image.
	d.dcsParams = snapshotParams(params)
	d.dcsInter = append(d.dcsInter[:0], intermediates...)
	d.dcsFinal = final
	d.dcsBuf = d.dcsBuf[:0]
	d.dcsTruncated = false
}

func (d *Dispatcher) Put(b byte) {
	if len(d.dcsBuf) < maxStringLen {
		d.dcsBuf = append(d.dcsBuf, b)
	} else {
		d.dcsTruncated = true
	}
}

func (d *Dispatcher) Unhook() {
	d.dispatchDCS(d.dcsParams, d.dcsInter, d.dcsFinal, d.dcsBuf, d.dcsTruncated)
}

func (d *Dispatcher) OscStart() {
	d.oscBuf = d.oscBuf[:0]
}

func (d *Dispatcher) OscPut(b byte) {
	if len(d.oscBuf) < maxStringLen {
		d.oscBuf = append(d.oscBuf, b)
	}
}

func (d *Dispatcher) OscEnd(truncated bool) {
	payload := append([]byte(nil), d.oscBuf...)
	d.emit(Event{Op: OpOperatingSystemCommand, Payload: payload, Truncated: truncated})
}

func snapshotParams(p *Params) Params {
	return Params{values: append([]int32(nil), p.values...), subOf: append([]int16(nil), p.subOf...)}
}
