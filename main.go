package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepsynth/config"
	"go-stepsynth/debug"
	"go-stepsynth/graph"
	"go-stepsynth/output"
	"go-stepsynth/sequencer"
	"go-stepsynth/synth"
	"go-stepsynth/theme"
	"go-stepsynth/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-stepsynth/config.json)")
	debugLog := flag.Bool("debug", os.Getenv("GO_STEPSYNTH_DEBUG") == "1", "write a debug log to "+debug.DefaultPath)
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	// Load config
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Load theme
	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		debug.Error("config", err, "palette %q, using built-in", cfg.UI.Palette)
		palette = theme.Default
	}
	th := theme.New(palette)

	ctx, engine, transport := newSession(cfg)

	player, err := output.NewPlayer(ctx, cfg.Audio.BufferFrames)
	if err != nil {
		fmt.Printf("Error: audio output: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()
	player.Start()

	// Create and run TUI
	m := tui.NewModel(transport, engine, th, cfg)
	m.SavePath = *configPath
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		transport.Stop()
		os.Exit(1)
	}
	transport.Stop()
}

// newSession builds the voice engine and transport on a running audio graph
func newSession(cfg *config.Config) (*graph.Context, *synth.Engine, *sequencer.Transport) {
	ctx := graph.NewContext(cfg.Audio.SampleRate)
	engine := synth.New(ctx, cfg.SynthOptions()...)
	opts := append(cfg.TransportOptions(), sequencer.WithPattern(sequencer.NewPattern(cfg.Pattern)))
	transport := sequencer.NewTransport(ctx, engine, opts...)
	ctx.Resume()
	return ctx, engine, transport
}
