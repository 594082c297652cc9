package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-framewire/framewire/video"
)

func frameWithTag(tag uint32) *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	fb.SetPixel(0, 0, tag)
	return fb
}

func TestFrameOrder(t *testing.T) {
	r := New(4, 4)

	for i := uint32(0); i < 3; i++ {
		r.RelayFrame(frameWithTag(i))
	}

	for i := uint32(0); i < 3; i++ {
		fb := <-r.Frames()
		assert.Equal(t, i, fb.GetPixel(0, 0))
	}
}

func TestFrameOverflowDropsOldest(t *testing.T) {
	r := New(2, 4)

	for i := uint32(0); i < 5; i++ {
		r.RelayFrame(frameWithTag(i))
	}

	// Queue holds the two newest frames; the three oldest were evicted.
	fb := <-r.Frames()
	assert.Equal(t, uint32(3), fb.GetPixel(0, 0))
	fb = <-r.Frames()
	assert.Equal(t, uint32(4), fb.GetPixel(0, 0))

	stats := r.Stats()
	assert.Equal(t, uint64(5), stats.FramesRelayed)
	assert.Equal(t, uint64(3), stats.FramesDropped)
}

func TestAudioOrderPreserved(t *testing.T) {
	r := New(2, 8)

	for i := int16(0); i < 5; i++ {
		r.RelayAudio([]int16{i, i, i})
	}

	for i := int16(0); i < 5; i++ {
		seg := <-r.Audio()
		require.Len(t, seg, 3)
		assert.Equal(t, i, seg[0])
	}
}

func TestAudioOverflowKeepsQueuedSequence(t *testing.T) {
	r := New(2, 2)

	r.RelayAudio([]int16{0})
	r.RelayAudio([]int16{1})
	r.RelayAudio([]int16{2}) // beyond the horizon, discarded whole

	seg := <-r.Audio()
	assert.Equal(t, int16(0), seg[0])
	seg = <-r.Audio()
	assert.Equal(t, int16(1), seg[0])

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.AudioRelayed)
	assert.Equal(t, uint64(1), stats.AudioDiscarded)
}

func TestCloseEndsStreams(t *testing.T) {
	r := New(2, 2)
	r.RelayFrame(frameWithTag(7))
	r.Close()

	fb, ok := <-r.Frames()
	require.True(t, ok)
	assert.Equal(t, uint32(7), fb.GetPixel(0, 0))

	_, ok = <-r.Frames()
	assert.False(t, ok)
	_, ok = <-r.Audio()
	assert.False(t, ok)
}
