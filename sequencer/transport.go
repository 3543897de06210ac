package sequencer

import (
	"math"
	"sync"
	"time"

	"go-stepsynth/debug"
)

// Clock is the audio clock the transport schedules against
type Clock interface {
	Now() float64 // seconds
	Resume()
}

// Instrument receives committed notes
type Instrument interface {
	ScheduleNote(pitch int, start, end, velocity float64) error
	Mute()
	UnMute()
}

// Defaults
const (
	DefaultStepsPerBar   = 16
	DefaultStepDuration  = 0.4 // seconds
	DefaultScheduleAhead = 0.2 // seconds
	DefaultTickInterval  = 100 * time.Millisecond
)

// Transport loops a bar of steps against the clock. Every tick commits the
// notes whose start falls in [scheduledUntil, now+scheduleAhead) to the
// instrument, so timing is set by the clock and not by when the tick runs.
type Transport struct {
	clock      Clock
	instrument Instrument
	pattern    *Pattern

	stepsPerBar   int
	stepDuration  float64
	scheduleAhead float64
	tickInterval  time.Duration

	mu             sync.Mutex
	isPlaying      bool
	startTime      float64
	scheduledUntil float64
	stopChan       chan struct{}

	// Notify UI after each background tick
	UpdateChan chan struct{}
}

// Option configures a Transport
type Option func(*Transport)

// WithStepsPerBar sets the bar length in steps
func WithStepsPerBar(n int) Option {
	return func(t *Transport) {
		if n > 0 {
			t.stepsPerBar = n
		}
	}
}

// WithStepDuration sets the step length in seconds
func WithStepDuration(d float64) Option {
	return func(t *Transport) {
		if d > 0 {
			t.stepDuration = d
		}
	}
}

// WithScheduleAhead sets the lookahead in seconds
func WithScheduleAhead(d float64) Option {
	return func(t *Transport) {
		if d > 0 {
			t.scheduleAhead = d
		}
	}
}

// WithTickInterval sets how often the background loop ticks.
// Zero disables the loop; the caller then drives Tick.
func WithTickInterval(d time.Duration) Option {
	return func(t *Transport) {
		if d >= 0 {
			t.tickInterval = d
		}
	}
}

// WithPattern shares an existing pattern store
func WithPattern(p *Pattern) Option {
	return func(t *Transport) {
		if p != nil {
			t.pattern = p
		}
	}
}

// NewTransport creates a stopped transport
func NewTransport(clock Clock, instrument Instrument, opts ...Option) *Transport {
	t := &Transport{
		clock:         clock,
		instrument:    instrument,
		pattern:       NewPattern(nil),
		stepsPerBar:   DefaultStepsPerBar,
		stepDuration:  DefaultStepDuration,
		scheduleAhead: DefaultScheduleAhead,
		tickInterval:  DefaultTickInterval,
		UpdateChan:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StepsPerBar returns the bar length in steps
func (t *Transport) StepsPerBar() int { return t.stepsPerBar }

// StepDuration returns the step length in seconds
func (t *Transport) StepDuration() float64 { return t.stepDuration }

// BarLength returns the bar length in seconds
func (t *Transport) BarLength() float64 {
	return float64(t.stepsPerBar) * t.stepDuration
}

// ScheduleAhead returns the lookahead in seconds
func (t *Transport) ScheduleAhead() float64 { return t.scheduleAhead }

// Pattern returns the pattern store
func (t *Transport) Pattern() *Pattern { return t.pattern }

// SetSequence replaces the pattern; the next tick sees it
func (t *Transport) SetSequence(notes []ScheduledNote) {
	t.pattern.Set(notes)
}

// GetSequence returns a copy of the pattern
func (t *Transport) GetSequence() []ScheduledNote {
	return t.pattern.Snapshot()
}

// GetPlayingState reports whether the transport is running
func (t *Transport) GetPlayingState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isPlaying
}

// ScheduledUntil returns the end of the committed window
func (t *Transport) ScheduledUntil() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduledUntil
}

// GetActiveStep returns the step under the playhead; ok is false while stopped
func (t *Transport) GetActiveStep() (step int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isPlaying {
		return -1, false
	}
	elapsed := t.clock.Now() - t.startTime
	if elapsed < 0 {
		elapsed = 0
	}
	offset := math.Mod(elapsed, t.BarLength())
	step = int(math.Floor(offset / t.stepDuration))
	if step >= t.stepsPerBar {
		step = t.stepsPerBar - 1
	}
	return step, true
}

// Start resumes the clock, anchors the bar grid at now and begins ticking
func (t *Transport) Start() {
	t.mu.Lock()
	if t.isPlaying {
		t.mu.Unlock()
		return
	}

	t.clock.Resume()
	t.isPlaying = true
	t.startTime = t.clock.Now()
	t.scheduledUntil = 0
	t.instrument.UnMute()

	stop := make(chan struct{})
	t.stopChan = stop
	t.mu.Unlock()

	debug.Log("sched", "start at %.3f", t.startTime)
	t.Tick()

	if t.tickInterval > 0 {
		go t.loop(stop)
	}
}

// Stop halts scheduling and fades the instrument out. Notes already
// committed keep their envelopes.
func (t *Transport) Stop() {
	t.mu.Lock()
	if !t.isPlaying {
		t.mu.Unlock()
		return
	}
	t.isPlaying = false
	if t.stopChan != nil {
		close(t.stopChan)
		t.stopChan = nil
	}
	t.mu.Unlock()

	t.instrument.Mute()
	debug.Log("sched", "stop")
}

// Toggle starts a stopped transport or stops a running one
func (t *Transport) Toggle() {
	if t.GetPlayingState() {
		t.Stop()
	} else {
		t.Start()
	}
}

// Tick commits every note due before now+scheduleAhead that an earlier tick
// has not committed. It returns the number of notes committed.
func (t *Transport) Tick() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isPlaying {
		return 0
	}

	now := t.clock.Now()
	barLength := t.BarLength()
	barIndex := math.Floor((now - t.startTime) / barLength)
	barStart := t.startTime + barIndex*barLength
	horizon := now + t.scheduleAhead

	notes := timed(t.pattern.Snapshot(), t.stepsPerBar, t.stepDuration)

	n := t.commitBar(notes, barStart, horizon)
	if horizon > barStart+barLength {
		n += t.commitBar(notes, barStart+barLength, horizon)
	}

	if n > 0 {
		debug.Log("sched", "window [%.3f, %.3f) bar=%d committed=%d", t.scheduledUntil, horizon, int(barIndex), n)
	}
	t.scheduledUntil = horizon
	return n
}

func (t *Transport) commitBar(notes []timedNote, barStart, horizon float64) int {
	n := 0
	for _, note := range notes {
		at := barStart + note.offset
		if at < t.scheduledUntil || at >= horizon {
			continue
		}
		if err := t.instrument.ScheduleNote(note.pitch, at, at+note.duration, note.velocity); err != nil {
			debug.Error("sched", err, "skip note %d at %.3f", note.pitch, at)
			continue
		}
		n++
	}
	return n
}

// loop ticks until stop is closed
func (t *Transport) loop(stop chan struct{}) {
	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Tick()
			select {
			case t.UpdateChan <- struct{}{}:
			default:
			}
		}
	}
}
