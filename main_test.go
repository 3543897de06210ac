package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepsynth/config"
	"go-stepsynth/theme"
	"go-stepsynth/tui"
)

func peak(out []float32) float32 {
	var p float32
	for _, v := range out {
		if v < 0 {
			v = -v
		}
		if v > p {
			p = v
		}
	}
	return p
}

func TestPreviewSoundsBeforeFirstPlay(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.SampleRate = 8000
	ctx, engine, transport := newSession(cfg)

	// the player pulls audio as soon as it starts
	idle := make([]float32, 4000)
	ctx.Render(idle)
	if now := ctx.Now(); now < 0.49 {
		t.Fatalf("clock at %v after 0.5s of output, want running", now)
	}
	if p := peak(idle); p != 0 {
		t.Fatalf("idle output peak %v, want silence", p)
	}

	m := tui.NewModel(transport, engine, theme.New(nil), cfg)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if transport.Pattern().Len() != 1 {
		t.Fatal("enter should add a note")
	}
	if transport.GetPlayingState() {
		t.Fatal("transport should still be stopped")
	}

	out := make([]float32, 2400)
	ctx.Render(out)
	if p := peak(out); p < 0.05 {
		t.Fatalf("preview peak %v, want audible output", p)
	}
}
