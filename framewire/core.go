// Package framewire wires an emulator core to a presentation context
// through the real-time transport layer: a shared-memory input channel
// inward, frame/audio relays and a startup progress stream outward.
package framewire

import (
	"github.com/valerio/go-framewire/framewire/input"
	"github.com/valerio/go-framewire/framewire/video"
)

// Core is the opaque emulator engine as seen by the transport. One call
// per tick advances emulation by one video frame given the current pad
// state, returning the completed frame and the audio produced during it.
//
// Ownership: both returned buffers pass to the caller; the core must not
// retain or mutate them after returning. Concrete cores are injected at
// session construction.
type Core interface {
	TickFrame(pad *input.Pad) (*video.FrameBuffer, []int16, error)
}

// CoreLoader instantiates a core from ROM bytes during startup.
type CoreLoader func(rom []byte, params Params) (Core, error)

// Params are the startup parameters supplied once by the hosting
// environment. Each field is independently defaulted when absent.
type Params struct {
	// EnableOptimizations asks the core to enable its fast paths.
	EnableOptimizations bool
	// Headless disables real-time pacing and any display surface.
	Headless bool
	// ROM is the path of the ROM image to load. May be empty for cores
	// that need none.
	ROM string
}

// DefaultParams returns the parameters used when the host supplies none.
func DefaultParams() Params {
	return Params{
		EnableOptimizations: true,
		Headless:            false,
		ROM:                 "",
	}
}
