package framewire

import (
	"math"

	"github.com/valerio/go-framewire/framewire/audio"
	"github.com/valerio/go-framewire/framewire/input"
	"github.com/valerio/go-framewire/framewire/video"
)

const (
	testPatternTileSize = 8
	testToneFrequency   = 440.0
	testToneAmplitude   = 6000
)

// TestPatternCore exercises the transport without a real emulator engine:
// it renders an animated checkerboard and a steady square-wave tone.
// Holding a direction button shifts the pattern; holding B mutes the tone.
type TestPatternCore struct {
	frameCount uint64
	offsetX    int
	offsetY    int
	phase      float64
	muted      bool
}

// LoadTestPattern is a CoreLoader for the test pattern core. ROM bytes
// are accepted and ignored.
func LoadTestPattern(rom []byte, params Params) (Core, error) {
	return &TestPatternCore{}, nil
}

var _ Core = (*TestPatternCore)(nil)

func (c *TestPatternCore) TickFrame(pad *input.Pad) (*video.FrameBuffer, []int16, error) {
	c.frameCount++
	if pad.Pressed(input.ButtonLeft) {
		c.offsetX--
	}
	if pad.Pressed(input.ButtonRight) {
		c.offsetX++
	}
	if pad.Pressed(input.ButtonUp) {
		c.offsetY--
	}
	if pad.Pressed(input.ButtonDown) {
		c.offsetY++
	}
	c.muted = pad.Pressed(input.ButtonB)

	// Fresh buffers every tick: relayed buffers are moved to the
	// presentation context and may not be reused.
	return c.renderFrame(), c.renderTone(), nil
}

func (c *TestPatternCore) renderFrame() *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	drift := int(c.frameCount / 30) // slow ambient scroll
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			tx := (x + c.offsetX + drift) / testPatternTileSize
			ty := (y + c.offsetY) / testPatternTileSize
			var color uint32 = 0xFF222222
			if (tx+ty)%2 == 0 {
				color = 0xFFCCCCCC
			}
			fb.SetPixel(uint(x), uint(y), color)
		}
	}
	return fb
}

func (c *TestPatternCore) renderTone() []int16 {
	samples := make([]int16, audio.SamplesPerFrame)
	if c.muted {
		return samples
	}
	step := testToneFrequency / audio.SampleRate
	for i := range samples {
		if math.Mod(c.phase, 1.0) < 0.5 {
			samples[i] = testToneAmplitude
		} else {
			samples[i] = -testToneAmplitude
		}
		c.phase += step
	}
	return samples
}
