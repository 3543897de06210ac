package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepsynth/config"
	"go-stepsynth/graph"
	"go-stepsynth/sequencer"
	"go-stepsynth/synth"
	"go-stepsynth/theme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx := graph.NewContext(8000)
	engine := synth.New(ctx)
	tr := sequencer.NewTransport(ctx, engine, sequencer.WithTickInterval(0))
	m := NewModel(tr, engine, theme.New(nil), config.DefaultConfig())
	m.SavePath = filepath.Join(t.TempDir(), "config.json")
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleWhileStoppedPreviews(t *testing.T) {
	m := newTestModel(t)
	pitch := m.rows[m.cursorRow]

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.Transport.Pattern().Has(pitch, 0) {
		t.Fatalf("note %d at step 0 not added", pitch)
	}
	if got := m.Synth.Context().Pending(); got != 1 {
		t.Errorf("Pending = %d, want the preview voice's detach", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Transport.Pattern().Has(pitch, 0) {
		t.Error("second toggle should remove the note")
	}
	if got := m.Synth.Context().Pending(); got != 1 {
		t.Errorf("removing a note should not preview, Pending = %d", got)
	}
}

func TestToggleWhilePlayingDoesNotPreview(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("p"))
	if !m.Transport.GetPlayingState() {
		t.Fatal("p should start the transport")
	}
	before := m.Synth.Context().Pending()

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.Transport.Pattern().Has(m.rows[m.cursorRow], 1) {
		t.Fatal("note at step 1 not added")
	}
	if got := m.Synth.Context().Pending(); got != before {
		t.Errorf("Pending = %d, want %d", got, before)
	}
	m = press(m, runes("p"))
	if m.Transport.GetPlayingState() {
		t.Error("second p should stop the transport")
	}
}

func TestCursorWraps(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursorStep != m.Transport.StepsPerBar()-1 {
		t.Errorf("cursorStep = %d after wrapping left", m.cursorStep)
	}
	last := len(m.rows) - 1
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursorRow != last {
		t.Errorf("cursorRow = %d, want to stay at %d", m.cursorRow, last)
	}
}

func TestParamSliders(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusParams {
		t.Fatal("tab should focus params")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, runes("]"))
	if got := m.Synth.GetParameter(synth.ParamVibratoFreq, -1); got != 11 {
		t.Errorf("vibrato-freq = %v, want 11", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Synth.GetParameter(synth.ParamVibratoFreq, -1); got != 0 {
		t.Errorf("vibrato-freq = %v, want clamp at 0", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 30; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if got := m.Synth.GetParameter(synth.ParamVibratoDepth, -1); got != 100 {
		t.Errorf("vibrato-depth = %v, want clamp at 100", got)
	}
}

func TestNextPresetAndClear(t *testing.T) {
	m := newTestModel(t)
	m.Transport.Pattern().Toggle(60, 3)

	m = press(m, runes("n"))
	if m.preset.Name != sequencer.Presets[1].Name {
		t.Errorf("preset = %s", m.preset.Name)
	}
	if m.cursorRow >= len(m.rows) {
		t.Errorf("cursorRow %d out of %d rows", m.cursorRow, len(m.rows))
	}
	m = press(m, runes("n"))
	if m.preset.Name != sequencer.Presets[0].Name {
		t.Errorf("preset should wrap, got %s", m.preset.Name)
	}

	m = press(m, runes("c"))
	if m.Transport.Pattern().Len() != 0 {
		t.Error("c should clear the pattern")
	}
}

func TestSave(t *testing.T) {
	m := newTestModel(t)
	m.Transport.Pattern().Toggle(52, 4)
	m.Synth.SetParameter(synth.ParamDelayVolume, 40)

	m = press(m, runes("w"))
	if m.status != "saved" {
		t.Fatalf("status = %q", m.status)
	}

	cfg, err := config.LoadFrom(m.SavePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Pattern) != 1 || cfg.Pattern[0].Note != 52 || cfg.Pattern[0].Time != 4 {
		t.Errorf("pattern = %+v", cfg.Pattern)
	}
	if cfg.Params[synth.ParamDelayVolume] != 40 {
		t.Errorf("params = %v", cfg.Params)
	}
}

func TestViewAndQuit(t *testing.T) {
	m := newTestModel(t)
	m.Transport.Pattern().Toggle(48, 0)

	out := m.View()
	for _, want := range []string{"STOP", "scale:" + m.preset.Name, "C3", "Filter Q"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, runes("p"))
	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if m.Transport.GetPlayingState() {
		t.Error("quit should stop the transport")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}
