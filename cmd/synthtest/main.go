package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-stepsynth/config"
	"go-stepsynth/debug"
	"go-stepsynth/graph"
	"go-stepsynth/output"
	"go-stepsynth/sequencer"
	"go-stepsynth/synth"
)

// renderTail is rendered after the last bar so releases and echoes finish
const renderTail = 1.5

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	if os.Getenv("GO_STEPSYNTH_DEBUG") == "1" {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = render(os.Args[2:])
	case "play":
		err = play(os.Args[2:])
	case "pattern":
		err = printPattern()
	case "params":
		err = printParams()
	case "init":
		err = initConfig(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Synth Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  render <out.wav> [bars]  - Render the configured pattern offline")
	fmt.Println("  play [seconds]           - Play the configured pattern on the audio device")
	fmt.Println("  pattern                  - Print the pattern with step times")
	fmt.Println("  params                   - List parameter values, envelope and waveform")
	fmt.Println("  init [path]              - Write a default config file")
}

// demoPattern is a minor pentatonic run used when the config has no pattern
func demoPattern() []sequencer.ScheduledNote {
	notes := sequencer.ScaleNotes("minor-pentatonic", 48, 7)
	var out []sequencer.ScheduledNote
	for i, n := range notes {
		out = append(out, sequencer.NewNote(n, i*2))
	}
	return out
}

// setup builds the engine and transport from the loaded config
func setup(cfg *config.Config, opts ...sequencer.Option) (*graph.Context, *synth.Engine, *sequencer.Transport) {
	notes := cfg.Pattern
	if len(notes) == 0 {
		notes = demoPattern()
	}
	ctx := graph.NewContext(cfg.Audio.SampleRate)
	engine := synth.New(ctx, cfg.SynthOptions()...)
	all := append(cfg.TransportOptions(), sequencer.WithPattern(sequencer.NewPattern(notes)))
	all = append(all, opts...)
	return ctx, engine, sequencer.NewTransport(ctx, engine, all...)
}

func render(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("render needs an output path")
	}
	bars := 2
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("bars must be a positive integer, got %q", args[1])
		}
		bars = n
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, _, tr := setup(cfg, sequencer.WithTickInterval(0))

	seconds := float64(bars)*tr.BarLength() + renderTail
	tr.Start()
	frames, err := output.RenderFile(args[0], ctx, tr, output.RenderOptions{
		Seconds:   seconds,
		TickEvery: time.Duration(cfg.Transport.TickIntervalMs) * time.Millisecond,
	})
	tr.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d bars, %d frames (%.2fs at %d Hz)\n",
		args[0], bars, frames, seconds, ctx.SampleRate())
	return nil
}

func play(args []string) error {
	seconds := 8.0
	if len(args) > 0 {
		s, err := strconv.ParseFloat(args[0], 64)
		if err != nil || s <= 0 {
			return fmt.Errorf("seconds must be positive, got %q", args[0])
		}
		seconds = s
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, engine, tr := setup(cfg)

	player, err := output.NewPlayer(ctx, cfg.Audio.BufferFrames)
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	defer player.Close()
	player.Start()

	fmt.Printf("Playing %d notes for %.1fs...\n", tr.Pattern().Len(), seconds)
	tr.Start()

	deadline := time.After(time.Duration(seconds * float64(time.Second)))
	status := time.NewTicker(time.Second)
	defer status.Stop()
	for {
		select {
		case <-status.C:
			step, _ := tr.GetActiveStep()
			fmt.Printf("  t=%6.2fs step=%2d voices=%d\n", ctx.Now(), step, engine.ActiveVoices())
		case <-deadline:
			tr.Stop()
			// let the mute fade finish before closing the device
			time.Sleep(200 * time.Millisecond)
			fmt.Println("Done")
			return nil
		}
	}
}

func printPattern() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, _, tr := setup(cfg)

	fmt.Printf("=== Pattern (%d steps, %.2fs per step) ===\n", tr.StepsPerBar(), tr.StepDuration())
	for _, n := range tr.GetSequence() {
		dur := tr.StepDuration()
		if n.Duration != nil {
			dur = *n.Duration
		}
		vel := 1.0
		if n.Velocity != nil {
			vel = *n.Velocity
		}
		skipped := ""
		if n.Time < 0 || n.Time >= tr.StepsPerBar() {
			skipped = "  (outside bar, skipped)"
		}
		fmt.Printf("  step %2d  %3d %-4s  at %5.2fs  for %.2fs  vel %.2f%s\n",
			n.Time, n.Note, sequencer.NoteName(n.Note),
			float64(n.Time)*tr.StepDuration(), dur, vel, skipped)
	}
	return nil
}

func printParams() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, engine, _ := setup(cfg)

	fmt.Println("=== Parameters ===")
	for _, k := range synth.Knobs {
		fmt.Printf("  %-14s %-14s %5.1f  (default %g, range %g-%g)\n",
			k.Name, k.Label, engine.GetParameter(k.Name, k.Default), k.Default, k.Min, k.Max)
	}
	e := engine.Envelope()
	fmt.Printf("\nEnvelope: a=%.2f d=%.2f s=%.2f r=%.2f\n", e.A, e.D, e.S, e.R)
	fmt.Printf("Waveform: %s\n", cfg.Waveform)
	return nil
}

func initConfig(args []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
