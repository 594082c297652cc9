// Package headless is the presentation backend for automated runs: no
// display, no audio device. Buffers are still consumed and scheduled so
// the transport path is exercised end to end.
package headless

import (
	"hash/fnv"
	"log/slog"
	"os"

	"github.com/valerio/go-framewire/framewire/backend"
	"github.com/valerio/go-framewire/framewire/sched"
	"github.com/valerio/go-framewire/framewire/video"
)

const logEveryFrames = 60

// Backend implements the presentation side for batch processing and CI.
type Backend struct {
	config    backend.Config
	scheduler *sched.Scheduler
	frames    uint64
}

func New() *Backend {
	return &Backend{}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	h.scheduler = sched.New(h, sched.NullAudioSink{}, nil)

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Headless backend initialized")
	return nil
}

// Run pumps both streams until the compute context closes them.
func (h *Backend) Run() error {
	h.scheduler.Pump(h.config.Frames, h.config.Audio)
	slog.Info("Headless run completed",
		"frames", h.scheduler.Frames(),
		"audio_segments", h.scheduler.Segments(),
		"underruns", h.scheduler.Underruns())
	return nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// DisplayFrame discards pixels but logs a digest periodically so batch
// runs can be compared without storing frames.
func (h *Backend) DisplayFrame(fb *video.FrameBuffer) {
	h.frames++
	if h.frames%logEveryFrames != 0 {
		return
	}
	digest := fnv.New32a()
	for _, px := range fb.ToSlice() {
		digest.Write([]byte{byte(px), byte(px >> 8), byte(px >> 16), byte(px >> 24)})
	}
	slog.Debug("Frame digest", "frame", h.frames, "fnv32a", digest.Sum32())
}
