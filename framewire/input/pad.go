package input

// Pad holds the edge-triggered button state for player 1. A press event
// sets the button's bit, a release clears it; ticks with no pending event
// leave the state untouched. Owned exclusively by the compute context.
type Pad struct {
	state uint8
}

// Apply folds one input event into the pad state.
func (p *Pad) Apply(e Event) {
	if e.Code >= buttonCount {
		return
	}
	if e.Pressed {
		p.state |= 1 << e.Code
	} else {
		p.state &^= 1 << e.Code
	}
}

// Pressed reports whether the given button is currently held.
func (p *Pad) Pressed(b Button) bool {
	return b < buttonCount && p.state&(1<<b) != 0
}

// State returns the packed button bits, one bit per Button value.
func (p *Pad) State() uint8 {
	return p.state
}
