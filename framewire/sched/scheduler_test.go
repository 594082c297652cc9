package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-framewire/framewire/audio"
	"github.com/valerio/go-framewire/framewire/video"
)

// fakeClock advances only when the test says so.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// recordingSink captures every queued segment and its start time.
type recordingSink struct {
	starts  []time.Time
	lengths []int
}

func (r *recordingSink) QueueSegment(samples []int16, start time.Time) {
	r.starts = append(r.starts, start)
	r.lengths = append(r.lengths, len(samples))
}

func segment(n int) []int16 {
	return make([]int16, n)
}

func TestSteadyCadenceNoDrift(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	sink := &recordingSink{}
	s := New(NullVideoSink{}, sink, clock.now)

	const n = audio.SamplesPerFrame
	d := audio.Duration(n)

	// Segments of duration d delivered every d: starts advance by
	// exactly d with no underruns.
	const count = 50
	for i := 0; i < count; i++ {
		s.OnAudio(segment(n))
		clock.advance(d)
	}

	require.Len(t, sink.starts, count)
	base := sink.starts[0]
	for i, start := range sink.starts {
		assert.Equal(t, base.Add(time.Duration(i)*d), start, "segment %d start drifted", i)
	}
	assert.Equal(t, uint64(0), s.Underruns())
}

func TestFirstSegmentAnchorsClock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(50, 0)}
	sink := &recordingSink{}
	s := New(NullVideoSink{}, sink, clock.now)

	start := s.OnAudio(segment(audio.SamplesPerFrame))
	assert.Equal(t, clock.t, start)
	assert.Equal(t, uint64(0), s.Underruns(), "anchoring is not an underrun")
}

func TestUnderrunRecovery(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	sink := &recordingSink{}
	s := New(NullVideoSink{}, sink, clock.now)

	var lags []time.Duration
	s.OnUnderrun = func(lag time.Duration) { lags = append(lags, lag) }

	const n = audio.SamplesPerFrame
	d := audio.Duration(n)

	// Two steady segments.
	s.OnAudio(segment(n))
	clock.advance(d)
	s.OnAudio(segment(n))

	// Delivery stalls well past the scheduled start of the next segment.
	stall := 3 * d
	clock.advance(stall)
	start := s.OnAudio(segment(n))

	assert.Equal(t, clock.t, start, "underrun segment starts immediately, not at the stale time")
	assert.Equal(t, uint64(1), s.Underruns())
	require.Len(t, lags, 1)
	assert.Equal(t, stall-d, lags[0])

	// Back-to-back scheduling resumes from the reset clock.
	clock.advance(d)
	next := s.OnAudio(segment(n))
	assert.Equal(t, start.Add(d), next)
	assert.Equal(t, uint64(1), s.Underruns())
}

func TestPumpDrainsUntilClose(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	sink := &recordingSink{}
	s := New(NullVideoSink{}, sink, clock.now)

	frames := make(chan *video.FrameBuffer, 4)
	segments := make(chan []int16, 4)
	frames <- video.NewFrameBuffer()
	frames <- video.NewFrameBuffer()
	segments <- segment(10)
	close(frames)
	close(segments)

	s.Pump(frames, segments)

	assert.Equal(t, uint64(2), s.Frames())
	assert.Equal(t, uint64(1), s.Segments())
}
