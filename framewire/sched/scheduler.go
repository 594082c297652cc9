// Package sched is the presentation-side consumer of relayed buffers.
// Frames are displayed immediately; audio segments are scheduled
// back-to-back against a running playback clock, with automatic recovery
// when playback underruns.
package sched

import (
	"log/slog"
	"time"

	"github.com/valerio/go-framewire/framewire/audio"
	"github.com/valerio/go-framewire/framewire/video"
)

// VideoSink displays one frame. The sink becomes the owner of the buffer.
type VideoSink interface {
	DisplayFrame(fb *video.FrameBuffer)
}

// AudioSink queues one segment to begin playing at the given time. The
// sink becomes the owner of the sample slice. Samples are signed 16-bit
// mono at audio.SampleRate.
type AudioSink interface {
	QueueSegment(samples []int16, start time.Time)
}

// NullVideoSink discards frames, for presentation contexts without a
// display surface.
type NullVideoSink struct{}

func (NullVideoSink) DisplayFrame(*video.FrameBuffer) {}

// NullAudioSink discards segments, for presentation contexts without an
// audio device. Scheduling and underrun accounting still run.
type NullAudioSink struct{}

func (NullAudioSink) QueueSegment([]int16, time.Time) {}

// Scheduler paces relayed buffers into the presentation sinks. It is
// owned by a single presentation goroutine; the playback clock state is
// never shared.
type Scheduler struct {
	video VideoSink
	sink  AudioSink
	now   func() time.Time

	// scheduled is the playback clock: the time the next audio segment
	// should begin. Monotonic non-decreasing except on underrun reset.
	scheduled time.Time
	primed    bool

	frames    uint64
	segments  uint64
	underruns uint64

	// OnUnderrun, if set, observes each underrun with the lag between
	// the stale scheduled start and the actual one. Diagnostics only.
	OnUnderrun func(lag time.Duration)
}

// New creates a scheduler over the given sinks. A nil clock uses
// time.Now; tests inject a fake.
func New(videoSink VideoSink, audioSink AudioSink, clock func() time.Time) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		video: videoSink,
		sink:  audioSink,
		now:   clock,
	}
}

// OnFrame displays a relayed frame immediately. No buffering and no
// catch-up: frame coalescing happens at the relay, not here.
func (s *Scheduler) OnFrame(fb *video.FrameBuffer) {
	s.frames++
	s.video.DisplayFrame(fb)
}

// OnAudio schedules a relayed segment and returns its start time.
//
// Steady state queues segments back-to-back at the playback clock. If the
// clock's scheduled start has already passed, playback underran: the
// segment starts immediately and the clock resets from now, accepting an
// audible gap in exchange for not accumulating scheduling drift.
func (s *Scheduler) OnAudio(samples []int16) time.Time {
	d := audio.Duration(len(samples))
	now := s.now()

	start := s.scheduled
	if !s.primed {
		// First segment of the session anchors the clock.
		s.primed = true
		start = now
	} else if !now.Before(s.scheduled) {
		lag := now.Sub(s.scheduled)
		s.underruns++
		start = now
		slog.Debug("audio underrun, rescheduling from now", "lag", lag, "underruns", s.underruns)
		if s.OnUnderrun != nil {
			s.OnUnderrun(lag)
		}
	}

	s.sink.QueueSegment(samples, start)
	s.scheduled = start.Add(d)
	s.segments++
	return start
}

// Pump consumes both relay streams until the compute context closes them.
// This is the presentation context's steady-state loop.
func (s *Scheduler) Pump(frames <-chan *video.FrameBuffer, segments <-chan []int16) {
	for frames != nil || segments != nil {
		select {
		case fb, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.OnFrame(fb)
		case seg, ok := <-segments:
			if !ok {
				segments = nil
				continue
			}
			s.OnAudio(seg)
		}
	}
}

// Underruns returns the number of underrun recoveries so far.
func (s *Scheduler) Underruns() uint64 {
	return s.underruns
}

// Frames returns the number of frames displayed so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Segments returns the number of audio segments scheduled so far.
func (s *Scheduler) Segments() uint64 {
	return s.segments
}
