package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-framewire/framewire/backend"
	"github.com/valerio/go-framewire/framewire/video"
)

func TestRunConsumesUntilStreamsClose(t *testing.T) {
	frames := make(chan *video.FrameBuffer, 4)
	audio := make(chan []int16, 4)

	for i := 0; i < 3; i++ {
		frames <- video.NewFrameBuffer()
		audio <- make([]int16, 735)
	}
	close(frames)
	close(audio)

	h := New()
	require.NoError(t, h.Init(backend.Config{Frames: frames, Audio: audio}))
	require.NoError(t, h.Run())
	require.NoError(t, h.Cleanup())

	assert.Equal(t, uint64(3), h.scheduler.Frames())
	assert.Equal(t, uint64(3), h.scheduler.Segments())
}
