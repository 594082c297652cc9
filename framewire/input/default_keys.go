package input

// DefaultKeyMap is the static mapping from physical key names to button
// codes, shared by all presentation backends. Keys not present here
// produce no event.
var DefaultKeyMap = map[string]Button{
	"z":     ButtonA,
	"x":     ButtonB,
	"Enter": ButtonStart,
	"Shift": ButtonSelect,
	"Up":    ButtonUp,
	"Down":  ButtonDown,
	"Left":  ButtonLeft,
	"Right": ButtonRight,

	// WASD alternatives
	"w": ButtonUp,
	"s": ButtonDown,
	"a": ButtonLeft,
	"d": ButtonRight,
}

// LookupKey returns the button mapped to a key name, if any.
func LookupKey(name string) (Button, bool) {
	b, ok := DefaultKeyMap[name]
	return b, ok
}
