package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	StepEmpty   rune // · no note
	StepNote    rune // ● note
	StepUnison  rune // ∘ same pitch class elsewhere in the column
	StepBeat    rune // : empty cell on a beat
	CursorEmpty rune // ○ cursor on empty
	CursorNote  rune // ◉ cursor on note
	Playhead    rune // ▼ column marker
	SliderFill  rune // █
	SliderEmpty rune // ░
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:   '·',
			StepNote:    '●',
			StepUnison:  '∘',
			StepBeat:    ':',
			CursorEmpty: '○',
			CursorNote:  '◉',
			Playhead:    '▼',
			SliderFill:  '█',
			SliderEmpty: '░',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.1
	RoleMuted   = 0.3
	RoleFG      = 0.5
	RoleAccent  = 0.6
	RoleCursor  = 0.7
	RoleActive  = 0.8
	RoleWarning = 0.9
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// NoteColor gives each pitch class its own hue, 30 degrees apart
func (t *Theme) NoteColor(pitch int) lipgloss.Color {
	return rgbToLipgloss(NoteRGB(pitch))
}

// NoteRGB is the raw color behind NoteColor
func NoteRGB(pitch int) RGB {
	return Hue(float64(pitch%12)*30, 0.6)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}

// Hex formats c as #rrggbb
func Hex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
