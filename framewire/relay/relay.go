// Package relay moves frame and audio buffers from the compute context to
// the presentation context. Each relay transfers ownership: the sender
// must not retain or mutate a buffer after handing it off. Relays are
// fire-and-forget so the compute loop is never paced by presentation cost.
package relay

import (
	"log/slog"
	"sync/atomic"

	"github.com/valerio/go-framewire/framewire/video"
)

const (
	// DefaultFrameDepth bounds outstanding video frames. Video tolerates
	// loss, so overflow drops the oldest undisplayed frame.
	DefaultFrameDepth = 2

	// DefaultAudioDepth bounds outstanding audio segments, roughly one
	// second of playback at one segment per frame. Audio is
	// order-sensitive and is never reordered or dropped from the middle.
	DefaultAudioDepth = 64
)

// Relay is the compute-side sending half and presentation-side receiving
// half of the buffer handoff. One goroutine sends, one receives.
type Relay struct {
	frames chan *video.FrameBuffer
	audio  chan []int16

	framesRelayed  atomic.Uint64
	framesDropped  atomic.Uint64
	audioRelayed   atomic.Uint64
	audioDiscarded atomic.Uint64
}

// New creates a relay with the given queue depths. Zero or negative
// depths fall back to the defaults.
func New(frameDepth, audioDepth int) *Relay {
	if frameDepth <= 0 {
		frameDepth = DefaultFrameDepth
	}
	if audioDepth <= 0 {
		audioDepth = DefaultAudioDepth
	}
	return &Relay{
		frames: make(chan *video.FrameBuffer, frameDepth),
		audio:  make(chan []int16, audioDepth),
	}
}

// RelayFrame hands one video frame to the presentation context. If the
// queue is full the oldest undisplayed frame is evicted so the newest one
// wins; drawing coalesces naturally when the display falls behind.
func (r *Relay) RelayFrame(fb *video.FrameBuffer) {
	for {
		select {
		case r.frames <- fb:
			r.framesRelayed.Add(1)
			return
		default:
		}
		select {
		case <-r.frames:
			r.framesDropped.Add(1)
		default:
		}
	}
}

// RelayAudio hands one audio segment to the presentation context.
// Segments arrive in production order. If the queue horizon is exceeded
// (presentation side stalled for over a second) the new segment is
// discarded whole rather than blocking the compute loop; the queued
// sequence stays contiguous.
func (r *Relay) RelayAudio(samples []int16) {
	select {
	case r.audio <- samples:
		r.audioRelayed.Add(1)
	default:
		r.audioDiscarded.Add(1)
		slog.Debug("audio queue full, segment discarded", "samples", len(samples))
	}
}

// Frames is the presentation-side receive endpoint for video.
func (r *Relay) Frames() <-chan *video.FrameBuffer {
	return r.frames
}

// Audio is the presentation-side receive endpoint for audio.
func (r *Relay) Audio() <-chan []int16 {
	return r.audio
}

// Close ends the session's outbound streams. Called once by the compute
// context at teardown, after its final tick.
func (r *Relay) Close() {
	close(r.frames)
	close(r.audio)
}

// Stats reports relay activity for diagnostics.
func (r *Relay) Stats() Stats {
	return Stats{
		FramesRelayed:  r.framesRelayed.Load(),
		FramesDropped:  r.framesDropped.Load(),
		AudioRelayed:   r.audioRelayed.Load(),
		AudioDiscarded: r.audioDiscarded.Load(),
	}
}

// Stats is a snapshot of relay counters.
type Stats struct {
	FramesRelayed  uint64
	FramesDropped  uint64
	AudioRelayed   uint64
	AudioDiscarded uint64
}
