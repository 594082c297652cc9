// Package terminal is the tcell presentation backend: frames render as
// half-block cells, key events feed the input producer. Terminals report
// no key-release events, so releases are synthesized when a key stops
// repeating.
package terminal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-framewire/framewire/backend"
	"github.com/valerio/go-framewire/framewire/sched"
	"github.com/valerio/go-framewire/framewire/video"
)

// keyTimeout is slightly longer than a typical key repeat interval; a key
// unseen for this long is considered released.
const keyTimeout = 100 * time.Millisecond

// keyExpiryInterval is how often held keys are checked for expiry.
const keyExpiryInterval = 25 * time.Millisecond

// Backend implements the presentation side on a terminal via tcell.
type Backend struct {
	config    backend.Config
	screen    tcell.Screen
	scheduler *sched.Scheduler

	quit     chan struct{}
	quitOnce sync.Once

	mu       sync.Mutex
	lastSeen map[string]time.Time // held keys, by name
}

func New() *Backend {
	return &Backend{
		quit:     make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
}

// Init opens the terminal screen. A host without a usable terminal is an
// unsupported environment and fails here, before any session starts.
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unsupported environment: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unsupported environment: %v", err)
	}
	t.screen = screen
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.HideCursor()
	t.screen.Clear()

	t.scheduler = sched.New(t, sched.NullAudioSink{}, nil)

	slog.Info("Terminal backend initialized")
	return nil
}

// Run consumes relayed buffers until the streams close or the user quits.
func (t *Backend) Run() error {
	go t.pollEvents()

	expiry := time.NewTicker(keyExpiryInterval)
	defer expiry.Stop()

	frames := t.config.Frames
	segments := t.config.Audio
	for frames != nil || segments != nil {
		select {
		case <-t.quit:
			return nil
		case <-expiry.C:
			t.expireKeys()
		case fb, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			t.scheduler.OnFrame(fb)
		case seg, ok := <-segments:
			if !ok {
				segments = nil
				continue
			}
			t.scheduler.OnAudio(seg)
		}
	}
	return nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// pollEvents translates tcell key events into producer pushes. Runs on
// its own goroutine; PollEvent blocks on the terminal, never on the
// compute context.
func (t *Backend) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Backend) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		t.quitOnce.Do(func() { close(t.quit) })
		return
	}

	name := keyName(ev)
	if name == "" {
		return
	}

	t.mu.Lock()
	_, held := t.lastSeen[name]
	t.lastSeen[name] = time.Now()
	t.mu.Unlock()

	// First sighting is the press edge; repeats only refresh the hold.
	if !held {
		t.config.Producer.HandleKey(name, true)
	}
}

// expireKeys synthesizes release edges for keys that stopped repeating.
func (t *Backend) expireKeys() {
	now := time.Now()
	t.mu.Lock()
	var released []string
	for name, seen := range t.lastSeen {
		if now.Sub(seen) > keyTimeout {
			released = append(released, name)
			delete(t.lastSeen, name)
		}
	}
	t.mu.Unlock()

	for _, name := range released {
		t.config.Producer.HandleKey(name, false)
	}
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ""
}

// DisplayFrame draws a frame as half-block cells: each text cell covers
// two vertically stacked pixels, upper half block colored with the top
// pixel, background with the bottom one.
func (t *Backend) DisplayFrame(fb *video.FrameBuffer) {
	width := int(fb.Width())
	height := int(fb.Height())

	for y := 0; y < height-1; y += 2 {
		for x := 0; x < width; x++ {
			top := fb.GetPixel(uint(x), uint(y))
			bottom := fb.GetPixel(uint(x), uint(y+1))
			style := tcell.StyleDefault.
				Foreground(rgbColor(top)).
				Background(rgbColor(bottom))
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	t.screen.Show()
}

func rgbColor(px uint32) tcell.Color {
	return tcell.NewRGBColor(
		int32(px>>16&0xFF),
		int32(px>>8&0xFF),
		int32(px&0xFF),
	)
}
