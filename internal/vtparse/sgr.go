package vtparse

// dispatchSGR forwards SGR parameters to the Sink mostly as-is: the parser's
// job is to recognize the truecolour/indexed sub-parameter shapes and the
// empty-parameter reset, not to apply them to a grid. screen-write owns
// attribute semantics; this only needs to hand it a correctly segmented
// parameter list.
//
// Two SGR sub-parameter forms exist in the wild: colon-separated
// (38:2:r:g:b, the modern form, already segmented by Params via IsSub) and
// semicolon-separated (38;2;r;g;b, the legacy form tmux and xterm both still
// accept, where the parser must itself recognize that 38/48 consumes either
// 4 more semicolon params for truecolour or 2 more for an indexed colour).
func (d *Dispatcher) dispatchSGR(params *Params) {
	if params.Len() == 0 {
		d.emit(Event{Op: OpSelectGraphicRendition, N: []int{0}})
		return
	}

	var out []int
	all := params.All()
	for i := 0; i < len(all); i++ {
		v := int(all[i])
		if (v == 38 || v == 48 || v == 58) && !params.IsSub(i) {
			consumed, seq := expandExtendedColor(params, i)
			out = append(out, seq...)
			i += consumed
			continue
		}
		out = append(out, v)
	}
	d.emit(Event{Op: OpSelectGraphicRendition, N: out})
}

// expandExtendedColor reads the legacy semicolon-separated 38/48/58 color
// forms starting at index i (params[i] is 38, 48, or 58) and returns how
// many additional top-level params it consumed plus the flattened
// [target, mode, ...components] sequence. Colon sub-parameters (already
// attached via IsSub to params[i+1]) are left for the caller's normal loop,
// since those arrive as distinct entries already associated with their
// parent.
func expandExtendedColor(params *Params, i int) (consumed int, seq []int) {
	target := params.Get(i, 0)
	if i+1 >= params.Len() || params.IsSub(i+1) {
		// Colon form: mode and components are sub-parameters of params[i+1]
		// itself handled by the normal per-entry loop in dispatchSGR, so we
		// only need to emit the target marker here and consume nothing.
		return 0, []int{target}
	}
	mode := params.Get(i+1, 0)
	switch mode {
	case 2: // r;g;b truecolour
		if i+4 < params.Len() {
			seq = []int{target, mode, params.Get(i+2, 0), params.Get(i+3, 0), params.Get(i+4, 0)}
			consumed = 4
			return
		}
	case 5: // indexed
		if i+2 < params.Len() {
			seq = []int{target, mode, params.Get(i+2, 0)}
			consumed = 2
			return
		}
	}
	return 1, []int{target, mode}
}
