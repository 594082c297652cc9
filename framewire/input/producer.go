package input

import (
	"log/slog"

	"github.com/valerio/go-framewire/framewire/shm"
)

// Producer is the presentation-side endpoint of the event channel. It is
// called synchronously from native input callbacks and never blocks: a
// full channel drops the event, since a lost keystroke is less harmful
// than a stalled presentation context.
type Producer struct {
	ring   *shm.Ring
	keymap map[string]Button
}

// NewProducer creates a producer pushing into the given ring, using the
// default key map.
func NewProducer(ring *shm.Ring) *Producer {
	return &Producer{ring: ring, keymap: DefaultKeyMap}
}

// HandleKey translates a physical key edge into an input event and pushes
// it. Unmapped keys are ignored. Returns true if an event was queued.
func (p *Producer) HandleKey(name string, pressed bool) bool {
	code, ok := p.keymap[name]
	if !ok {
		return false
	}
	return p.Push(Event{Code: code, Pressed: pressed})
}

// Push encodes one event and pushes it non-blockingly.
func (p *Producer) Push(e Event) bool {
	var rec [EncodedSize]byte
	e.Encode(rec[:])
	if !p.ring.TryPush(rec[:]) {
		slog.Debug("input channel full, event dropped", "button", e.Code, "pressed", e.Pressed)
		return false
	}
	return true
}
