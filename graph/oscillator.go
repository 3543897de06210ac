package graph

import (
	"fmt"
	"math"
)

// Waveform selects an oscillator's shape
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = []string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform maps a name such as "sawtooth" to its Waveform
func ParseWaveform(name string) (Waveform, error) {
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return Sine, fmt.Errorf("unknown waveform %q", name)
}

// Oscillator is a periodic generator. It is silent before its start time and
// from its stop time on; a stopped oscillator cannot be restarted.
type Oscillator struct {
	Type      Waveform
	Frequency *Param // Hz
	Detune    *Param // cents

	start, stop float64
	started     bool
	phase       float64
	memo        memo
}

// NewOscillator creates a 440 Hz sine that has not been started
func (c *Context) NewOscillator() *Oscillator {
	return &Oscillator{
		Frequency: newParam(440),
		Detune:    newParam(0),
		stop:      math.Inf(1),
	}
}

// Start begins output at t. Only the first call has an effect.
func (o *Oscillator) Start(t float64) {
	if o.started {
		return
	}
	o.started = true
	o.start = t
}

// Stop silences the oscillator from t on
func (o *Oscillator) Stop(t float64) {
	if t < o.stop {
		o.stop = t
	}
}

// StopTime returns the scheduled stop time, +Inf if none
func (o *Oscillator) StopTime() float64 {
	return o.stop
}

func (o *Oscillator) sample(frame int64, c *Context) float64 {
	if v, ok := o.memo.get(frame); ok {
		return v
	}
	t := c.frameTime(frame)
	if !o.started || t < o.start || t >= o.stop {
		o.memo.set(frame, 0)
		return 0
	}

	freq := o.Frequency.sample(frame, c) * math.Exp2(o.Detune.sample(frame, c)/1200)
	v := shape(o.Type, o.phase)
	o.phase += freq / c.sampleRate
	o.phase -= math.Floor(o.phase)

	o.memo.set(frame, v)
	return v
}

func shape(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*phase - 1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
