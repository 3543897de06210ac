package tui

import (
	"fmt"
	"strings"

	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-stepsynth/config"
	"go-stepsynth/debug"
	"go-stepsynth/sequencer"
	"go-stepsynth/synth"
	"go-stepsynth/theme"
	"go-stepsynth/widgets"
)

// previewDuration is how long a note added while stopped sounds
const previewDuration = 0.5

type focusArea int

const (
	focusGrid focusArea = iota
	focusParams
)

type Model struct {
	Transport *sequencer.Transport
	Synth     *synth.Engine
	Theme     *theme.Theme
	Config    *config.Config
	SavePath  string // empty means the default config path

	preset     sequencer.Preset
	rows       []int
	cursorRow  int
	cursorStep int
	focus      focusArea
	paramIdx   int

	keys     keyMap
	help     help.Model
	status   string
	quitting bool
}

type UpdateMsg struct{}

func NewModel(tr *sequencer.Transport, s *synth.Engine, th *theme.Theme, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	preset := sequencer.GetPreset(cfg.UI.Preset)
	m := Model{
		Transport: tr,
		Synth:     s,
		Theme:     th,
		Config:    cfg,
		preset:    preset,
		rows:      preset.Rows(),
		keys:      defaultKeys(),
		help:      help.New(),
	}
	m.cursorRow = len(m.rows) - 1
	return m
}

func ListenForUpdates(tr *sequencer.Transport) tea.Cmd {
	return func() tea.Msg {
		<-tr.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Transport)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Transport)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.Transport.Stop()
		return m, tea.Quit

	case key.Matches(msg, k.Play):
		m.Transport.Toggle()

	case key.Matches(msg, k.Clear):
		m.Transport.Pattern().Clear()
		m.status = "pattern cleared"

	case key.Matches(msg, k.Focus):
		if m.focus == focusGrid {
			m.focus = focusParams
		} else {
			m.focus = focusGrid
		}

	case key.Matches(msg, k.Preset):
		m.nextPreset()

	case key.Matches(msg, k.Save):
		m.save()

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case m.focus == focusParams:
		m.handleParamKey(msg)

	default:
		m.handleGridKey(msg)
	}
	return m, nil
}

func (m *Model) handleGridKey(msg tea.KeyMsg) {
	k := m.keys
	steps := m.Transport.StepsPerBar()
	switch {
	case key.Matches(msg, k.Up):
		m.cursorRow = max(0, m.cursorRow-1)
	case key.Matches(msg, k.Down):
		m.cursorRow = min(len(m.rows)-1, m.cursorRow+1)
	case key.Matches(msg, k.Left):
		m.cursorStep = (m.cursorStep - 1 + steps) % steps
	case key.Matches(msg, k.Right):
		m.cursorStep = (m.cursorStep + 1) % steps
	case key.Matches(msg, k.Toggle):
		m.toggleCell(m.rows[m.cursorRow], m.cursorStep)
	}
}

// toggleCell adds or removes a note; an added note is previewed while stopped
func (m *Model) toggleCell(pitch, step int) {
	added := m.Transport.Pattern().Toggle(pitch, step)
	m.status = ""
	if !added || m.Transport.GetPlayingState() {
		return
	}
	if err := m.Synth.PlayNote(pitch, previewDuration, 1); err != nil {
		debug.Error("tui", err, "preview failed")
		m.status = fmsg.GetIssue(err)
	}
}

func (m *Model) handleParamKey(msg tea.KeyMsg) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		m.paramIdx = max(0, m.paramIdx-1)
	case key.Matches(msg, k.Down):
		m.paramIdx = min(len(synth.Knobs)-1, m.paramIdx+1)
	case key.Matches(msg, k.Left):
		m.nudgeParam(-5)
	case key.Matches(msg, k.Right):
		m.nudgeParam(5)
	case key.Matches(msg, k.Less):
		m.nudgeParam(-1)
	case key.Matches(msg, k.More):
		m.nudgeParam(1)
	}
}

func (m *Model) nudgeParam(delta float64) {
	knob := synth.Knobs[m.paramIdx]
	v := m.Synth.GetParameter(knob.Name, knob.Default) + delta
	v = max(knob.Min, min(knob.Max, v))
	m.Synth.SetParameter(knob.Name, v)
}

func (m *Model) nextPreset() {
	i := 0
	for j, p := range sequencer.Presets {
		if p.Name == m.preset.Name {
			i = (j + 1) % len(sequencer.Presets)
		}
	}
	m.preset = sequencer.Presets[i]
	m.rows = m.preset.Rows()
	m.cursorRow = min(m.cursorRow, len(m.rows)-1)
	m.status = "scale " + m.preset.Name
}

func (m *Model) save() {
	cfg := m.Config
	cfg.Pattern = m.Transport.GetSequence()
	cfg.UI.Preset = m.preset.Name
	if cfg.Params == nil {
		cfg.Params = make(map[string]float64)
	}
	for _, knob := range synth.Knobs {
		cfg.Params[knob.Name] = m.Synth.GetParameter(knob.Name, knob.Default)
	}

	var err error
	if m.SavePath != "" {
		err = cfg.SaveTo(m.SavePath)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		debug.Error("config", err, "save failed")
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved"
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	step, playing := m.Transport.GetActiveStep()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	stepInfo := "--"
	if playing {
		playState = "PLAY"
		stepInfo = fmt.Sprintf("%02d", step+1)
	}
	header := headerStyle.Render(fmt.Sprintf("go-stepsynth  %s  step:%s  scale:%s  %.2fs/step",
		playState, stepInfo, m.preset.Name, m.Transport.StepDuration()))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderGrid(step, playing))
	out.WriteString("\n\n")
	out.WriteString(m.renderParams())
	out.WriteString("\n\n")
	if m.status != "" {
		out.WriteString(statusStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return out.String()
}

const labelWidth = 9

func (m Model) renderGrid(activeStep int, playing bool) string {
	sym := m.Theme.Symbols
	pattern := m.Transport.Pattern()
	steps := m.Transport.StepsPerBar()

	var lines []string

	marker := make([]string, steps)
	for s := range marker {
		marker[s] = " "
		if playing && s == activeStep {
			marker[s] = widgets.RenderCell(sym.Playhead, m.Theme.Active())
		}
	}
	lines = append(lines, strings.Repeat(" ", labelWidth)+widgets.RenderRow(marker, 4))

	for r, pitch := range m.rows {
		label := lipgloss.NewStyle().Foreground(m.Theme.NoteColor(pitch)).
			Render(fmt.Sprintf("%3d %-4s", pitch, sequencer.NoteName(pitch)))

		cells := make([]string, steps)
		for s := 0; s < steps; s++ {
			cells[s] = m.renderCell(pattern, pitch, s, r == m.cursorRow && s == m.cursorStep, playing && s == activeStep)
		}
		lines = append(lines, label+" "+widgets.RenderRow(cells, 4))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCell(p *sequencer.Pattern, pitch, step int, cursor, active bool) string {
	sym := m.Theme.Symbols
	hasNote := p.Has(pitch, step)
	cursor = cursor && m.focus == focusGrid

	switch {
	case cursor && hasNote:
		return widgets.RenderCell(sym.CursorNote, m.Theme.Cursor())
	case cursor:
		return widgets.RenderCell(sym.CursorEmpty, m.Theme.Cursor())
	case hasNote && active:
		return widgets.RenderCell(sym.StepNote, m.Theme.Success())
	case hasNote:
		return widgets.RenderCell(sym.StepNote, m.Theme.NoteColor(pitch))
	case p.HasUnison(pitch, step):
		return widgets.RenderCell(sym.StepUnison, m.Theme.NoteColor(pitch))
	case active:
		return widgets.RenderCell(sym.StepEmpty, m.Theme.Active())
	case step%4 == 0:
		return widgets.RenderCell(sym.StepBeat, m.Theme.Muted())
	default:
		return widgets.RenderCell(sym.StepEmpty, m.Theme.Muted())
	}
}

func (m Model) renderParams() string {
	sym := m.Theme.Symbols
	var lines []string
	for i, knob := range synth.Knobs {
		v := m.Synth.GetParameter(knob.Name, knob.Default)
		style := lipgloss.NewStyle().Foreground(m.Theme.FG())
		label := knob.Label
		if m.focus == focusParams && i == m.paramIdx {
			style = lipgloss.NewStyle().Foreground(m.Theme.Cursor())
			label = "> " + label
		} else {
			label = "  " + label
		}
		bar := widgets.SliderBar(v, knob.Min, knob.Max, 24, sym.SliderFill, sym.SliderEmpty)
		lines = append(lines, widgets.RenderSlider(label, 16, bar, v, style))
	}
	return strings.Join(lines, "\n")
}
