package sequencer

import (
	"fmt"
	"slices"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Scale is a repeating list of semitone steps between consecutive notes
type Scale struct {
	Name  string
	Steps []int
}

// Scales contains every scale the grid can lay out
var Scales = map[string]Scale{
	"chromatic":        {Name: "Chromatic", Steps: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	"major":            {Name: "Major", Steps: []int{2, 2, 1, 2, 2, 2, 1}},
	"major-pentatonic": {Name: "Major Pentatonic", Steps: []int{2, 2, 3, 2, 3}},
	"minor":            {Name: "Minor", Steps: []int{2, 1, 2, 2, 1, 2, 2}},
	"minor-pentatonic": {Name: "Minor Pentatonic", Steps: []int{3, 2, 2, 3, 2}},
}

// DefaultScale is used for unknown scale names
const DefaultScale = "chromatic"

// GetScale returns a scale by key, falling back to chromatic
func GetScale(key string) Scale {
	if s, ok := Scales[key]; ok {
		return s
	}
	return Scales[DefaultScale]
}

// ScaleNotes walks the scale up from base, adding count notes after it.
// A negative count means one octave's worth.
func ScaleNotes(key string, base, count int) []int {
	steps := GetScale(key).Steps
	if count < 0 {
		count = len(steps) - 1
	}
	notes := make([]int, 0, count+1)
	notes = append(notes, base)
	n := base
	for i := 0; i < count; i++ {
		n += steps[i%len(steps)]
		notes = append(notes, n)
	}
	return notes
}

// Preset is a named grid layout
type Preset struct {
	Name  string
	Scale string
	Base  int
	Count int
}

// Presets lists the grid layouts in menu order
var Presets = []Preset{
	{Name: "CmP", Scale: "minor-pentatonic", Base: 48, Count: 25},
	{Name: "G#mP", Scale: "minor-pentatonic", Base: 44, Count: 15},
}

// DefaultPreset is used for unknown preset names
const DefaultPreset = "CmP"

// GetPreset returns a preset by name, falling back to DefaultPreset
func GetPreset(name string) Preset {
	for _, p := range Presets {
		if p.Name == name {
			return p
		}
	}
	return Presets[0]
}

// Rows returns the preset's pitches highest first, one per grid row
func (p Preset) Rows() []int {
	rows := ScaleNotes(p.Scale, p.Base, p.Count)
	slices.Reverse(rows)
	return rows
}

// IsUnison reports whether two pitches share a pitch class
func IsUnison(a, b int) bool {
	return (a-b)%12 == 0
}

// NoteName returns the pitch class and MIDI octave, e.g. "C3" for 48 and "A4" for 69
func NoteName(pitch int) string {
	if pitch < 0 || pitch > 127 {
		return fmt.Sprintf("?%d", pitch)
	}
	return fmt.Sprintf("%s%d", gomidi.Note(uint8(pitch)).Name(), pitch/12-1)
}
