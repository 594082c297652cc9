package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-framewire/framewire/shm"
)

func newTestRing(t *testing.T) *shm.Ring {
	t.Helper()
	ring, err := shm.New(shm.DefaultCapacity, EncodedSize)
	require.NoError(t, err)
	return ring
}

func TestEventCodec(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{name: "press A", event: Event{Code: ButtonA, Pressed: true}},
		{name: "release A", event: Event{Code: ButtonA, Pressed: false}},
		{name: "press highest code", event: Event{Code: ButtonRight, Pressed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec [EncodedSize]byte
			tt.event.Encode(rec[:])
			assert.Equal(t, tt.event, DecodeEvent(rec[:]))
		})
	}
}

func TestPadEdges(t *testing.T) {
	var pad Pad

	pad.Apply(Event{Code: ButtonA, Pressed: true})
	assert.True(t, pad.Pressed(ButtonA))
	assert.False(t, pad.Pressed(ButtonB))

	// Repeated press is idempotent.
	pad.Apply(Event{Code: ButtonA, Pressed: true})
	assert.True(t, pad.Pressed(ButtonA))

	pad.Apply(Event{Code: ButtonStart, Pressed: true})
	assert.Equal(t, uint8(1<<ButtonA|1<<ButtonStart), pad.State())

	pad.Apply(Event{Code: ButtonA, Pressed: false})
	assert.False(t, pad.Pressed(ButtonA))
	assert.True(t, pad.Pressed(ButtonStart))

	// Out-of-range codes leave the state untouched.
	pad.Apply(Event{Code: Button(200), Pressed: true})
	assert.Equal(t, uint8(1<<ButtonStart), pad.State())
}

func TestProducerKeyMapping(t *testing.T) {
	ring := newTestRing(t)
	producer := NewProducer(ring)

	assert.True(t, producer.HandleKey("z", true))
	assert.False(t, producer.HandleKey("F35", true), "unmapped key produces no event")
	assert.Equal(t, 1, ring.Len())
}

func TestPressReleaseRoundTrip(t *testing.T) {
	ring := newTestRing(t)
	producer := NewProducer(ring)
	consumer := NewConsumer(ring)

	require.True(t, producer.Push(Event{Code: ButtonA, Pressed: true}))
	require.True(t, producer.Push(Event{Code: ButtonA, Pressed: false}))

	var pad Pad

	e, ok := consumer.Poll(&pad)
	require.True(t, ok)
	assert.Equal(t, Event{Code: ButtonA, Pressed: true}, e)
	assert.True(t, pad.Pressed(ButtonA))

	e, ok = consumer.Poll(&pad)
	require.True(t, ok)
	assert.Equal(t, Event{Code: ButtonA, Pressed: false}, e)
	assert.False(t, pad.Pressed(ButtonA))

	// Third poll on an empty channel: no event, no state change.
	_, ok = consumer.Poll(&pad)
	assert.False(t, ok)
	assert.Equal(t, uint8(0), pad.State())
}

func TestBurstOverflowDropsNewest(t *testing.T) {
	ring, err := shm.New(8, EncodedSize)
	require.NoError(t, err)
	producer := NewProducer(ring)
	consumer := NewConsumer(ring)

	for i := 0; i < 4; i++ {
		require.True(t, producer.Push(Event{Code: ButtonA, Pressed: i%2 == 0}))
	}
	assert.False(t, producer.Push(Event{Code: ButtonB, Pressed: true}))

	// Queued events survive the overflow intact and in order.
	var pad Pad
	for i := 0; i < 4; i++ {
		e, ok := consumer.Poll(&pad)
		require.True(t, ok)
		assert.Equal(t, ButtonA, e.Code)
		assert.Equal(t, i%2 == 0, e.Pressed)
	}
	_, ok := consumer.Poll(&pad)
	assert.False(t, ok)
}
