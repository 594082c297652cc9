// Package audio holds the fixed sample format shared by the compute and
// presentation contexts: little-endian signed 16-bit samples, mono, at a
// fixed sample rate.
package audio

import "time"

const (
	// SampleRate is the playback rate expected by the presentation sink.
	SampleRate = 44100

	// SamplesPerFrame is the nominal segment length produced per video
	// frame tick at 60 frames per second (44100 / 60).
	SamplesPerFrame = SampleRate / 60
)

// Duration returns the playback duration of a segment of n samples.
func Duration(n int) time.Duration {
	return time.Duration(n) * time.Second / SampleRate
}
