// Package input carries controller input from the presentation context
// into the compute context over the shared event channel.
package input

// Button identifies one of the eight controller buttons for player 1.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight

	buttonCount = 8
)

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonSelect:
		return "Select"
	case ButtonStart:
		return "Start"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	}
	return "Unknown"
}

// EncodedSize is the fixed width of one event record on the wire:
// one byte button code, one byte pressed flag.
const EncodedSize = 2

// Event is a single press or release edge. Immutable value type.
type Event struct {
	Code    Button
	Pressed bool
}

// Encode writes the wire form of the event into dst.
func (e Event) Encode(dst []byte) {
	dst[0] = byte(e.Code)
	if e.Pressed {
		dst[1] = 1
	} else {
		dst[1] = 0
	}
}

// DecodeEvent reads one event record from its wire form.
func DecodeEvent(src []byte) Event {
	return Event{
		Code:    Button(src[0]),
		Pressed: src[1] != 0,
	}
}
