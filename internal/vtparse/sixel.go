package vtparse

// dispatchDCS handles a complete DCS string (payload collected by Put calls
// between Hook and Unhook). The only DCS payload this core recognizes is a
// Sixel image, identified by a 'q' final byte; everything else is forwarded
// as a generic DeviceControlString event so a higher layer can ignore or log
// it, per the parser's "no fatal errors at this layer" rule.
func (d *Dispatcher) dispatchDCS(params Params, intermediates []byte, final byte, payload []byte, truncated bool) {
	if final == 'q' {
		d.dispatchSixel(&params, payload, truncated)
		return
	}
	out := append([]byte(nil), payload...)
	d.emit(Event{Op: OpDeviceControlString, Payload: out, Truncated: truncated})
}

// dispatchSixel emits a Sixel event. Per DEC's sixel DCS syntax, the
// parameters before the 'q' are Pa (aspect ratio, ignored here), Pb
// (background setting), Pc (horizontal grid size, unused); xpixel/ypixel
// are not known until the raster attributes ("...) introducer inside the
// payload is parsed by the image decoder that owns rendering, so this layer
// passes 0 and lets that decoder fill them in.
func (d *Dispatcher) dispatchSixel(params *Params, payload []byte, truncated bool) {
	background := params.Get(1, 0)
	d.emit(Event{
		Op:        OpSixel,
		N:         []int{background, 0, 0},
		Payload:   append([]byte(nil), payload...),
		Truncated: truncated,
	})
}
