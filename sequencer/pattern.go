package sequencer

import (
	"slices"
	"sync"
)

// ScheduledNote is one note placed on the step grid
type ScheduledNote struct {
	Note     int      `json:"note"`
	Time     int      `json:"time"`               // step index within the bar
	Duration *float64 `json:"duration,omitempty"` // seconds; step duration when nil
	Velocity *float64 `json:"velocity,omitempty"` // 0-1; full when nil
}

// NewNote places pitch at step with default duration and velocity
func NewNote(pitch, step int) ScheduledNote {
	return ScheduledNote{Note: pitch, Time: step}
}

// WithDuration returns a copy with an explicit duration
func (n ScheduledNote) WithDuration(d float64) ScheduledNote {
	n.Duration = &d
	return n
}

// WithVelocity returns a copy with an explicit velocity
func (n ScheduledNote) WithVelocity(v float64) ScheduledNote {
	n.Velocity = &v
	return n
}

// timedNote is a note positioned in seconds from the start of its bar
type timedNote struct {
	pitch    int
	offset   float64
	duration float64
	velocity float64
}

// timed drops notes outside the bar and resolves defaults
func timed(notes []ScheduledNote, stepsPerBar int, stepDuration float64) []timedNote {
	out := make([]timedNote, 0, len(notes))
	for _, n := range notes {
		if n.Time < 0 || n.Time >= stepsPerBar {
			continue
		}
		tn := timedNote{
			pitch:    n.Note,
			offset:   float64(n.Time) * stepDuration,
			duration: stepDuration,
			velocity: 1,
		}
		if n.Duration != nil {
			tn.duration = *n.Duration
		}
		if n.Velocity != nil {
			tn.velocity = *n.Velocity
		}
		out = append(out, tn)
	}
	return out
}

// Pattern is the editable note collection. Readers always get a copy, so a
// change lands at the next tick.
type Pattern struct {
	mu    sync.RWMutex
	notes []ScheduledNote
}

// NewPattern creates a pattern holding a copy of notes
func NewPattern(notes []ScheduledNote) *Pattern {
	return &Pattern{notes: slices.Clone(notes)}
}

// Snapshot returns a copy of the notes
func (p *Pattern) Snapshot() []ScheduledNote {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.notes)
}

// Set replaces every note
func (p *Pattern) Set(notes []ScheduledNote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = slices.Clone(notes)
}

// Len returns the number of notes
func (p *Pattern) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.notes)
}

// Has reports whether pitch is placed at step
func (p *Pattern) Has(pitch, step int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.find(pitch, step) >= 0
}

// Toggle removes the first note at (pitch, step) or adds one.
// Returns true when a note was added.
func (p *Pattern) Toggle(pitch, step int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.find(pitch, step); i >= 0 {
		p.notes = slices.Delete(p.notes, i, i+1)
		return false
	}
	p.notes = append(p.notes, NewNote(pitch, step))
	return true
}

// Clear removes every note
func (p *Pattern) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = nil
}

// HasUnison reports whether another pitch of the same pitch class sits at step
func (p *Pattern) HasUnison(pitch, step int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, n := range p.notes {
		if n.Time == step && n.Note != pitch && IsUnison(n.Note, pitch) {
			return true
		}
	}
	return false
}

func (p *Pattern) find(pitch, step int) int {
	return slices.IndexFunc(p.notes, func(n ScheduledNote) bool {
		return n.Note == pitch && n.Time == step
	})
}
