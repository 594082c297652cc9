package input

import "github.com/valerio/go-framewire/framewire/shm"

// Consumer is the compute-side endpoint of the event channel. The tick
// loop polls it at most once per emulated frame; an empty channel simply
// means no input this tick. Polling, never waiting: the compute context
// must not suspend on the presentation side.
type Consumer struct {
	ring *shm.Ring
}

func NewConsumer(ring *shm.Ring) *Consumer {
	return &Consumer{ring: ring}
}

// Poll drains at most one pending event and applies it to the pad.
// Returns the event and true if one was present.
func (c *Consumer) Poll(pad *Pad) (Event, bool) {
	var rec [EncodedSize]byte
	if !c.ring.TryPop(rec[:]) {
		return Event{}, false
	}
	e := DecodeEvent(rec[:])
	pad.Apply(e)
	return e, true
}
