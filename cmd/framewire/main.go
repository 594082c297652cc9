package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/go-framewire/framewire"
	"github.com/valerio/go-framewire/framewire/backend"
	"github.com/valerio/go-framewire/framewire/backend/headless"
	"github.com/valerio/go-framewire/framewire/backend/sdl2"
	"github.com/valerio/go-framewire/framewire/backend/terminal"
	"github.com/valerio/go-framewire/framewire/input"
	"github.com/valerio/go-framewire/framewire/progress"
)

func main() {
	app := cli.NewApp()
	app.Name = "Framewire"
	app.Description = "Real-time frame/audio/input transport between an emulator core and a presentation backend"
	app.Usage = "framewire [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (optional for the built-in test pattern core)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display or audio device",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "sdl",
			Usage: "Use the SDL2 window backend instead of the terminal (requires -tags sdl2 build)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window pixel scale for the SDL2 backend",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "no-optimize",
			Usage: "Disable core fast paths",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running framewire", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	params := framewire.DefaultParams()
	params.Headless = c.Bool("headless")
	if c.Bool("no-optimize") {
		params.EnableOptimizations = false
	}
	params.ROM = c.String("rom")
	if params.ROM == "" && c.NArg() > 0 {
		params.ROM = c.Args().Get(0)
	}

	maxFrames := uint64(c.Int("frames"))
	if params.Headless && maxFrames == 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	sess, err := framewire.NewSession(params, framewire.LoadTestPattern)
	if err != nil {
		return err
	}

	var b backend.Backend
	switch {
	case params.Headless:
		b = headless.New()
	case c.Bool("sdl"):
		b = sdl2.New()
	default:
		b = terminal.New()
	}

	cfg := backend.Config{
		Title:    "Framewire",
		Scale:    c.Int("scale"),
		Producer: input.NewProducer(sess.Ring()),
		Frames:   sess.Relay().Frames(),
		Audio:    sess.Relay().Audio(),
	}
	// Backend init failures (no terminal, no display) are the
	// unsupported-environment case: fail before the session starts.
	if err := b.Init(cfg); err != nil {
		return err
	}
	defer b.Cleanup()

	// The compute context: startup, then the tick loop, on its own
	// goroutine. The presentation side below never blocks it.
	go func() {
		defer sess.Close()
		if err := sess.Start(); err != nil {
			return
		}
		if err := sess.Run(maxFrames); err != nil {
			slog.Error("Compute loop stopped", "error", err)
		}
	}()

	if err := watchStartup(sess.Progress()); err != nil {
		return err
	}

	return b.Run()
}

// watchStartup drains the ordered progress stream, logging each stage.
// It returns the startup failure, if any; the stream closes after its
// terminal event.
func watchStartup(events <-chan progress.Event) error {
	for ev := range events {
		switch ev.Kind {
		case progress.KindMessage:
			slog.Info("Startup", "stage", ev.Text)
		case progress.KindProgress:
			slog.Debug("Startup progress", "value", ev.Value)
		case progress.KindError:
			return errors.New(ev.Text)
		case progress.KindDone:
			slog.Info("Startup complete, running")
		}
	}
	return nil
}
