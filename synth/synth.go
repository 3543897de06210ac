package synth

import (
	"math"
	"sync"

	"go-stepsynth/debug"
	"go-stepsynth/graph"
)

const (
	echoTime      = 0.15 // seconds between delay repeats
	echoFeedback  = 0.8  // delay attenuation at delay-volume 100
	muteTime      = 0.1
	maxTail       = 10.0
	silenceDB     = -60.0
	masterLimit   = 0.5
	masterAttack  = 0.003
	masterRelease = 0.25
)

// Engine renders notes into a graph context. Each Start builds a voice
// sub-graph feeding a shared limiter and master gain.
type Engine struct {
	ctx *graph.Context

	mu       sync.Mutex
	params   *paramTable
	envelope Envelope
	waveform graph.Waveform
	voices   *voiceTable
	mods     *Modulators

	master *graph.Limiter
	amp    *graph.Gain
}

// Option configures an Engine
type Option func(*Engine)

// WithEnvelope replaces the default envelope
func WithEnvelope(e Envelope) Option {
	return func(s *Engine) {
		s.envelope = e
	}
}

// WithWaveform sets the voice oscillator shape
func WithWaveform(w graph.Waveform) Option {
	return func(s *Engine) {
		s.waveform = w
	}
}

// WithParams seeds the parameter table
func WithParams(values map[string]float64) Option {
	return func(s *Engine) {
		for name, v := range values {
			s.params.set(name, v)
		}
	}
}

// New creates an engine wired to ctx's destination
func New(ctx *graph.Context, opts ...Option) *Engine {
	s := &Engine{
		ctx:      ctx,
		params:   newParamTable(),
		envelope: DefaultEnvelope,
		voices:   newVoiceTable(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx.Update(func() {
		s.mods = newModulators(ctx)
		s.amp = ctx.NewGain()
		s.master = ctx.NewLimiter(masterLimit, masterAttack, masterRelease)
		graph.Connect(s.master, s.amp)
		graph.Connect(s.amp, ctx.Destination())
	})
	return s
}

// Context returns the graph the engine renders into
func (s *Engine) Context() *graph.Context {
	return s.ctx
}

// Now returns the engine's clock time
func (s *Engine) Now() float64 {
	return s.ctx.Now()
}

// Volume returns the master output gain param
func (s *Engine) Volume() *graph.Param {
	return s.amp.Gain
}

// Envelope returns the envelope applied to new voices
func (s *Engine) Envelope() Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envelope
}

// SetParameter stores a named value; it takes effect at the next Start
func (s *Engine) SetParameter(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.set(name, v)
	debug.Log("param", "%s=%.2f", name, v)
}

// GetParameter returns the named value, or def if it was never set
func (s *Engine) GetParameter(name string, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.get(name, def)
}

// Params returns the typed view of the current table
func (s *Engine) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.snapshot()
}

// ParameterNames returns every name that has been set, sorted
func (s *Engine) ParameterNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.names()
}

// ActiveVoices returns the number of started voices that have not been stopped
func (s *Engine) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voices.len()
}

// Start builds a voice for pitch whose envelope begins at t and peaks at velocity.
func (s *Engine) Start(pitch int, t, velocity float64) (VoiceID, error) {
	freq, err := Frequency(pitch)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.params.snapshot()
	env := s.envelope
	waveform := s.waveform

	var id VoiceID
	s.ctx.Update(func() {
		ctx := s.ctx
		s.mods.retarget(p)

		osc := ctx.NewOscillator()
		osc.Type = waveform
		osc.Frequency.SetValue(freq)

		filter := ctx.NewBiquad()
		filter.Frequency.SetValue(freq / 2)
		filter.Q.SetValue(p.FilterQ)

		amp := ctx.NewGain()
		amp.Gain.SetValue(0)
		env.applyStart(amp.Gain, t, velocity)

		graph.Connect(osc, filter)
		graph.Connect(filter, amp)

		// echo: amp -> delay -> low-pass -> attenuation -> master, attenuation -> delay
		feedback := p.DelayVolume / 100 * echoFeedback
		delay := ctx.NewDelay(echoTime)
		delay.DelayTime.SetValue(echoTime)
		echoFilter := ctx.NewBiquad()
		echoFilter.Frequency.SetValue(freq / 2)
		atten := ctx.NewGain()
		atten.Gain.SetValue(feedback)

		graph.Connect(amp, delay)
		graph.Connect(delay, echoFilter)
		graph.Connect(echoFilter, atten)
		graph.Connect(atten, s.master)
		graph.Connect(atten, delay)

		tap := s.mods.tap(p, ctx)
		graph.Connect(tap.Vibrato, osc.Detune)

		tremolo := ctx.NewGain()
		graph.Connect(amp, tremolo)
		graph.Connect(tap.Tremolo, tremolo.Gain)
		graph.Connect(tremolo, s.master)

		osc.Start(t)

		id = s.voices.add(voice{
			pitch:   pitch,
			osc:     osc,
			env:     amp,
			outputs: []graph.Source{tremolo, atten},
			tap:     tap,
			adsr:    env,
			tail:    echoTail(feedback),
		})
	})

	debug.Log("voice", "start id=%d pitch=%d t=%.3f vel=%.2f", id, pitch, t, velocity)
	return id, nil
}

// Stop releases the voice at t. Unknown or already stopped ids are ignored.
func (s *Engine) Stop(id VoiceID, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.voices.remove(id)
	if !ok {
		return
	}
	env := v.adsr

	s.ctx.Update(func() {
		env.applyEnd(v.env.Gain, t)
		v.osc.Stop(t + env.R)

		s.ctx.At(t+env.R+v.tail, func() {
			for _, out := range v.outputs {
				graph.Disconnect(out, s.master)
			}
			v.tap.release()
		})
	})

	debug.Log("voice", "stop id=%d t=%.3f", id, t)
}

// ScheduleNote starts a voice at start and releases it at end
func (s *Engine) ScheduleNote(pitch int, start, end, velocity float64) error {
	id, err := s.Start(pitch, start, velocity)
	if err != nil {
		return err
	}
	s.Stop(id, end)
	return nil
}

// PlayNote schedules a note starting at the current clock time
func (s *Engine) PlayNote(pitch int, duration, velocity float64) error {
	t := s.ctx.Now()
	return s.ScheduleNote(pitch, t, t+duration, velocity)
}

// Mute fades the master output to silence. Voices keep running.
func (s *Engine) Mute() {
	s.ctx.Update(func() {
		now := s.ctx.Now()
		s.amp.Gain.CancelAndHoldAtTime(now)
		s.amp.Gain.LinearRampToValueAtTime(0, now+muteTime)
	})
	debug.Log("voice", "mute")
}

// UnMute restores the master output at full gain
func (s *Engine) UnMute() {
	s.ctx.Update(func() {
		s.amp.Gain.CancelScheduledValues(0)
		s.amp.Gain.SetValue(1)
	})
	debug.Log("voice", "unmute")
}

// echoTail returns how long the feedback delay rings before dropping below silenceDB
func echoTail(feedback float64) float64 {
	if feedback <= 0 {
		return echoTime
	}
	if feedback >= 1 {
		return maxTail
	}
	repeats := math.Ceil((silenceDB / 20) * math.Ln10 / math.Log(feedback))
	return math.Min(echoTime*(repeats+1), maxTail)
}
