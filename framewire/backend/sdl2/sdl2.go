//go:build sdl2

// Package sdl2 is the windowed presentation backend with a real audio
// device. Building it requires the SDL2 development libraries; default
// builds get a stub, see build tags (sdl2).
package sdl2

import (
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-framewire/framewire/audio"
	"github.com/valerio/go-framewire/framewire/backend"
	"github.com/valerio/go-framewire/framewire/sched"
	"github.com/valerio/go-framewire/framewire/video"
)

const defaultScale = 4

// Backend implements the presentation side using SDL2 bindings.
type Backend struct {
	config    backend.Config
	window    *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	device    sdl.AudioDeviceID
	scheduler *sched.Scheduler
	running   bool
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("unsupported environment: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture

	spec := sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(audio.SamplesPerFrame),
	}
	device, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %v", err)
	}
	s.device = device
	sdl.PauseAudioDevice(device, false)

	s.scheduler = sched.New(s, s, nil)
	s.running = true

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

// Run alternates between draining relayed buffers and the SDL event pump.
func (s *Backend) Run() error {
	frames := s.config.Frames
	segments := s.config.Audio
	for s.running && (frames != nil || segments != nil) {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			s.handleEvent(event)
		}

		select {
		case fb, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.scheduler.OnFrame(fb)
		case seg, ok := <-segments:
			if !ok {
				segments = nil
				continue
			}
			s.scheduler.OnAudio(seg)
		case <-time.After(time.Millisecond):
			// Keep the event pump responsive while streams are idle.
		}
	}
	return nil
}

func (s *Backend) Cleanup() error {
	if s.device != 0 {
		sdl.CloseAudioDevice(s.device)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		s.running = false
	case *sdl.KeyboardEvent:
		if ev.Keysym.Sym == sdl.K_ESCAPE {
			s.running = false
			return
		}
		name := keyName(ev.Keysym.Sym)
		if name == "" || ev.Repeat != 0 {
			return
		}
		s.config.Producer.HandleKey(name, ev.Type == sdl.KEYDOWN)
	}
}

func keyName(sym sdl.Keycode) string {
	switch sym {
	case sdl.K_UP:
		return "Up"
	case sdl.K_DOWN:
		return "Down"
	case sdl.K_LEFT:
		return "Left"
	case sdl.K_RIGHT:
		return "Right"
	case sdl.K_RETURN:
		return "Enter"
	case sdl.K_LSHIFT, sdl.K_RSHIFT:
		return "Shift"
	}
	if sym >= sdl.K_a && sym <= sdl.K_z {
		return string(rune('a' + (sym - sdl.K_a)))
	}
	return ""
}

// DisplayFrame uploads the frame to the streaming texture and presents.
func (s *Backend) DisplayFrame(fb *video.FrameBuffer) {
	pixels := fb.ToSlice()
	s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.FramebufferWidth*video.BytesPerPixel)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

// QueueSegment feeds the device queue. The device clock provides the
// actual pacing; the scheduler's playback clock still tracks underruns.
func (s *Backend) QueueSegment(samples []int16, start time.Time) {
	if len(samples) == 0 {
		return
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	if err := sdl.QueueAudio(s.device, buf); err != nil {
		slog.Debug("audio queue failed", "error", err)
	}
}
