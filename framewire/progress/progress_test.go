package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(r *Reporter) []Event {
	var events []Event
	for ev := range r.Events() {
		events = append(events, ev)
	}
	return events
}

func TestSuccessfulStartupOrdering(t *testing.T) {
	r := NewReporter(16)

	r.Message("downloading")
	r.Progress(0)
	r.Progress(0.5)
	r.Progress(1)
	r.Message("instantiating")
	r.Done()

	events := collect(r)
	require.Len(t, events, 6)
	assert.Equal(t, Event{Kind: KindMessage, Text: "downloading"}, events[0])
	assert.Equal(t, Event{Kind: KindProgress, Value: 0}, events[1])
	assert.Equal(t, Event{Kind: KindProgress, Value: 0.5}, events[2])
	assert.Equal(t, Event{Kind: KindProgress, Value: 1}, events[3])
	assert.Equal(t, Event{Kind: KindMessage, Text: "instantiating"}, events[4])
	assert.Equal(t, KindDone, events[5].Kind)
}

func TestErrorIsTerminal(t *testing.T) {
	r := NewReporter(16)

	r.Message("downloading")
	r.Error("rom not found")

	// Nothing after the terminal event reaches the stream.
	r.Progress(1)
	r.Message("instantiating")
	r.Done()
	r.Error("second failure")

	events := collect(r)
	require.Len(t, events, 2)
	assert.Equal(t, KindMessage, events[0].Kind)
	assert.Equal(t, Event{Kind: KindError, Text: "rom not found"}, events[1])
}

func TestDoneIsTerminal(t *testing.T) {
	r := NewReporter(16)

	r.Done()
	r.Progress(0.5)
	r.Done()
	r.Error("late failure")

	events := collect(r)
	require.Len(t, events, 1)
	assert.Equal(t, KindDone, events[0].Kind)
}

func TestProgressClamped(t *testing.T) {
	r := NewReporter(16)

	r.Progress(-0.5)
	r.Progress(1.5)
	r.Done()

	events := collect(r)
	require.Len(t, events, 3)
	assert.Equal(t, 0.0, events[0].Value)
	assert.Equal(t, 1.0, events[1].Value)
}
