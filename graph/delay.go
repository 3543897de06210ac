package graph

import "math"

// Delay outputs its input DelayTime seconds later. The delay is at least one
// frame, which is what lets a feedback loop route back into its own input.
type Delay struct {
	bus
	DelayTime *Param // seconds

	buf  []float64
	pos  int
	memo memo
}

// NewDelay creates a delay line able to hold maxDelay seconds
func (c *Context) NewDelay(maxDelay float64) *Delay {
	n := int(math.Ceil(maxDelay*c.sampleRate)) + 1
	if n < 2 {
		n = 2
	}
	return &Delay{
		DelayTime: newParam(0),
		buf:       make([]float64, n),
	}
}

func (d *Delay) sample(frame int64, c *Context) float64 {
	if v, ok := d.memo.get(frame); ok {
		return v
	}

	n := len(d.buf)
	delay := int(math.Round(d.DelayTime.sample(frame, c) * c.sampleRate))
	if delay < 1 {
		delay = 1
	}
	if delay > n-1 {
		delay = n - 1
	}
	y := d.buf[(d.pos-delay+n)%n]
	d.memo.set(frame, y)

	d.buf[d.pos] = d.sum(frame, c)
	d.pos = (d.pos + 1) % n
	return y
}
