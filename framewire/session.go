package framewire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-framewire/framewire/input"
	"github.com/valerio/go-framewire/framewire/progress"
	"github.com/valerio/go-framewire/framewire/relay"
	"github.com/valerio/go-framewire/framewire/shm"
	"github.com/valerio/go-framewire/framewire/timing"
)

// ErrNotStarted is returned by Run when startup has not completed.
var ErrNotStarted = errors.New("framewire: session not started")

// romChunkSize is the read granularity for startup progress ticks.
const romChunkSize = 64 * 1024

// Session owns the compute side of one emulation session: the event
// channel consumer, the outbound relays, the progress stream and the core
// itself. It lives for the whole session; teardown is process-level.
//
// A session is used from exactly one compute goroutine. The presentation
// context touches only the endpoints exposed by Ring, Relay and Progress.
type Session struct {
	params   Params
	load     CoreLoader
	ring     *shm.Ring
	relay    *relay.Relay
	reporter *progress.Reporter
	consumer *input.Consumer
	pad      input.Pad
	limiter  timing.Limiter
	core     Core
}

// NewSession allocates the session's channels and relays. The core is not
// instantiated until Start.
func NewSession(params Params, load CoreLoader) (*Session, error) {
	ring, err := shm.New(shm.DefaultCapacity, input.EncodedSize)
	if err != nil {
		return nil, fmt.Errorf("allocating event channel: %w", err)
	}

	var limiter timing.Limiter
	if params.Headless {
		limiter = timing.NewNoOpLimiter()
	} else {
		limiter = timing.NewAdaptiveLimiter()
	}

	return &Session{
		params:   params,
		load:     load,
		ring:     ring,
		relay:    relay.New(relay.DefaultFrameDepth, relay.DefaultAudioDepth),
		reporter: progress.NewReporter(0),
		consumer: input.NewConsumer(ring),
		limiter:  limiter,
	}, nil
}

// Ring is the shared event channel. The presentation context attaches an
// input.Producer to it; the session is the sole consumer.
func (s *Session) Ring() *shm.Ring {
	return s.ring
}

// Relay exposes the outbound frame/audio endpoints for the presentation
// context.
func (s *Session) Relay() *relay.Relay {
	return s.relay
}

// Progress is the ordered startup status stream. It closes after the
// terminal Done or Error event.
func (s *Session) Progress() <-chan progress.Event {
	return s.reporter.Events()
}

// Start performs the one-shot startup sequence: ROM fetch, then core
// instantiation, reporting ordered progress. On failure the terminal
// error event is emitted and the tick loop must not be run. This is the
// compute context's only blocking phase.
func (s *Session) Start() error {
	rom, err := s.fetchROM()
	if err != nil {
		s.reporter.Error(err.Error())
		return err
	}

	s.reporter.Message("instantiating")
	core, err := s.load(rom, s.params)
	if err != nil {
		err = fmt.Errorf("instantiating core: %w", err)
		s.reporter.Error(err.Error())
		return err
	}
	s.core = core
	s.reporter.Done()

	slog.Info("session started", "rom", s.params.ROM, "headless", s.params.Headless,
		"optimizations", s.params.EnableOptimizations)
	return nil
}

// fetchROM reads the ROM image in chunks, emitting progress ticks from 0
// to 1. An empty ROM path yields no bytes and a trivial 0→1 sequence.
func (s *Session) fetchROM() ([]byte, error) {
	s.reporter.Message("downloading")
	s.reporter.Progress(0)

	if s.params.ROM == "" {
		s.reporter.Progress(1)
		return nil, nil
	}

	f, err := os.Open(s.params.ROM)
	if err != nil {
		return nil, fmt.Errorf("fetching rom: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("fetching rom: %w", err)
	}
	total := info.Size()

	rom := make([]byte, 0, total)
	chunk := make([]byte, romChunkSize)
	for {
		n, err := f.Read(chunk)
		rom = append(rom, chunk[:n]...)
		if total > 0 && n > 0 {
			s.reporter.Progress(float64(len(rom)) / float64(total))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching rom: %w", err)
		}
	}
	s.reporter.Progress(1)
	return rom, nil
}

// Run is the compute context's tick loop: poll at most one input event,
// advance the core by one frame, relay the frame and audio, pace, repeat.
// It never blocks on the presentation context. maxFrames of 0 runs until
// the core fails or the process terminates.
//
// In-loop transport conditions (empty channel, full queues, underruns)
// never interrupt the loop; only a core failure stops it.
func (s *Session) Run(maxFrames uint64) error {
	if s.core == nil {
		return ErrNotStarted
	}

	for frame := uint64(0); maxFrames == 0 || frame < maxFrames; frame++ {
		s.consumer.Poll(&s.pad)

		fb, samples, err := s.core.TickFrame(&s.pad)
		if err != nil {
			return fmt.Errorf("core tick failed at frame %d: %w", frame, err)
		}

		// Buffers are moved, not copied: after these calls the
		// presentation context is their sole owner.
		s.relay.RelayFrame(fb)
		s.relay.RelayAudio(samples)

		s.limiter.WaitForNextFrame()
	}
	return nil
}

// Close ends the outbound streams at session teardown.
func (s *Session) Close() {
	s.relay.Close()
	stats := s.relay.Stats()
	slog.Debug("session closed",
		"frames_relayed", stats.FramesRelayed,
		"frames_dropped", stats.FramesDropped,
		"audio_relayed", stats.AudioRelayed,
		"input_dropped", s.ring.Dropped())
}
