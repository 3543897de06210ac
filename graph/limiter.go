package graph

import "math"

// Limiter is a soft limiter for the master bus. The RMS amplitude of the
// output, averaged over the attack time, approaches the limit; the signal is
// delayed by the attack time so gain reduction lands before the peak.
type Limiter struct {
	bus
	limit float64

	down, up float64
	amp      float64 // log2 gain, <= 0
	ms       float64 // mean square
	k        float64
	delay    []float64
	pos      int
	memo     memo
}

// NewLimiter creates a limiter; attack and decay are in seconds
func (c *Context) NewLimiter(limit, attack, decay float64) *Limiter {
	n := int(attack * c.sampleRate)
	if n < 1 {
		n = 1
	}
	return &Limiter{
		limit: limit,
		down:  -1 / (attack * c.sampleRate),
		up:    1 / (decay * c.sampleRate),
		k:     1 / float64(n),
		delay: make([]float64, n),
	}
}

// Reduction returns the current gain applied by the limiter (1 means none)
func (l *Limiter) Reduction() float64 {
	return math.Exp2(l.amp)
}

func (l *Limiter) sample(frame int64, c *Context) float64 {
	if v, ok := l.memo.get(frame); ok {
		return v
	}
	x := l.sum(frame, c)

	gain := math.Exp2(l.amp)
	l.ms += (x*x - l.ms) * l.k
	if y := math.Sqrt(2*l.ms) / l.limit; y > 0 && math.Tanh(y)/y < gain {
		l.amp += l.down
	} else {
		l.amp += l.up
	}
	if l.amp > 0 {
		l.amp = 0
	}

	delayed := l.delay[l.pos]
	l.delay[l.pos] = x
	l.pos = (l.pos + 1) % len(l.delay)

	v := gain * delayed
	l.memo.set(frame, v)
	return v
}
