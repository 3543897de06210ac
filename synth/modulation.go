package synth

import "go-stepsynth/graph"

// Modulators owns the vibrato and tremolo LFOs shared by every voice.
// Each voice gets its own depth stage through a Tap.
type Modulators struct {
	vibrato *graph.Oscillator
	tremolo *graph.Oscillator
}

func newModulators(ctx *graph.Context) *Modulators {
	m := &Modulators{
		vibrato: ctx.NewOscillator(),
		tremolo: ctx.NewOscillator(),
	}
	m.vibrato.Frequency.SetValue(0)
	m.tremolo.Frequency.SetValue(0)
	m.vibrato.Start(0)
	m.tremolo.Start(0)
	return m
}

// retarget moves both LFOs to the current rates; already sounding voices follow
func (m *Modulators) retarget(p Params) {
	m.vibrato.Frequency.SetValue(p.VibratoFreq)
	m.tremolo.Frequency.SetValue(p.TremoloFreq)
}

// Tap is one voice's connection to the shared LFOs
type Tap struct {
	Vibrato *graph.Gain // output in cents, for a detune param
	Tremolo *graph.Gain // output added to a gain param

	mods *Modulators
}

func (m *Modulators) tap(p Params, ctx *graph.Context) *Tap {
	t := &Tap{
		Vibrato: ctx.NewGain(),
		Tremolo: ctx.NewGain(),
		mods:    m,
	}
	t.Vibrato.Gain.SetValue(p.VibratoDepth)
	t.Tremolo.Gain.SetValue(p.TremoloDepth / 100)
	graph.Connect(m.vibrato, t.Vibrato)
	graph.Connect(m.tremolo, t.Tremolo)
	return t
}

// release unhooks the tap from the LFOs
func (t *Tap) release() {
	graph.Disconnect(t.mods.vibrato, t.Vibrato)
	graph.Disconnect(t.mods.tremolo, t.Tremolo)
}
