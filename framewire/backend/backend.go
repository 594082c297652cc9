// Package backend defines the presentation context: the side with access
// to display, audio and input devices. Backends consume the relayed
// frame/audio streams and feed key edges into the input producer.
package backend

import (
	"github.com/valerio/go-framewire/framewire/input"
	"github.com/valerio/go-framewire/framewire/video"
)

// Backend is a complete presentation platform (rendering + input + audio).
// Backends are responsible for:
// - Displaying relayed frames on their specific output (terminal, SDL window)
// - Translating platform-specific key events into the input producer
// - Scheduling relayed audio against their playback device, if any
type Backend interface {
	// Init configures the backend. Required before Run. An environment
	// that cannot support the backend (no terminal, no display) fails
	// here, before any session starts.
	Init(config Config) error

	// Run consumes the frame and audio streams until they close or the
	// user quits. This is the presentation context's main loop; it never
	// blocks on the compute context beyond waiting for relayed buffers.
	Run() error

	// Cleanup releases platform resources at teardown.
	Cleanup() error
}

// Config holds the transport endpoints and display settings a backend
// needs.
type Config struct {
	Title    string
	Scale    int
	Producer *input.Producer
	Frames   <-chan *video.FrameBuffer
	Audio    <-chan []int16
}
