package graph

import "math"

// Biquad is a resonant two-pole low-pass filter. Q is the resonance peak in
// dB, so 0 is flat at the cutoff and larger values ring.
type Biquad struct {
	bus
	Frequency *Param // cutoff, Hz
	Q         *Param // dB

	freq, q            float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	ready              bool
	memo               memo
}

// NewBiquad creates a low-pass at 350 Hz with Q 1
func (c *Context) NewBiquad() *Biquad {
	return &Biquad{
		Frequency: newParam(350),
		Q:         newParam(1),
	}
}

func (f *Biquad) sample(frame int64, c *Context) float64 {
	if v, ok := f.memo.get(frame); ok {
		return v
	}
	x := f.sum(frame, c)
	if v, ok := f.memo.get(frame); ok {
		return v
	}

	freq := f.Frequency.sample(frame, c)
	q := f.Q.sample(frame, c)
	if !f.ready || freq != f.freq || q != f.q {
		f.coefficients(freq, q, c.sampleRate)
	}

	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y

	f.memo.set(frame, y)
	return y
}

func (f *Biquad) coefficients(freq, q, sampleRate float64) {
	f.freq, f.q, f.ready = freq, q, true

	nyquist := sampleRate / 2
	freq = clamp(freq, 1, nyquist*0.999)
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * math.Pow(10, q/20))
	cosw := math.Cos(w0)

	a0 := 1 + alpha
	f.b0 = (1 - cosw) / 2 / a0
	f.b1 = (1 - cosw) / a0
	f.b2 = f.b0
	f.a1 = -2 * cosw / a0
	f.a2 = (1 - alpha) / a0
}
