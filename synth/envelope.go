package synth

import "go-stepsynth/graph"

// Envelope holds attack, decay and release times in seconds and the sustain level
type Envelope struct {
	A float64 `json:"a"`
	D float64 `json:"d"`
	S float64 `json:"s"`
	R float64 `json:"r"`
}

// DefaultEnvelope is a short pluck with a high sustain
var DefaultEnvelope = Envelope{A: 0.1, D: 0.1, S: 0.8, R: 0.15}

// applyStart rises from 0 to peak over A, then moves to S over D.
// S is not scaled by peak.
func (e Envelope) applyStart(p *graph.Param, t, peak float64) {
	p.SetValueAtTime(0, t)
	p.LinearRampToValueAtTime(peak, t+e.A)
	p.LinearRampToValueAtTime(e.S, t+e.A+e.D)
}

// applyEnd holds whatever value the curve has at t and falls to 0 over R
func (e Envelope) applyEnd(p *graph.Param, t float64) {
	p.CancelAndHoldAtTime(t)
	p.LinearRampToValueAtTime(0, t+e.R)
}
