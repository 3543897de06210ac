package graph

// Gain multiplies the sum of its inputs by Gain
type Gain struct {
	bus
	Gain *Param
	memo memo
}

// NewGain creates a unity gain node
func (c *Context) NewGain() *Gain {
	return &Gain{Gain: newParam(1)}
}

func (g *Gain) sample(frame int64, c *Context) float64 {
	if v, ok := g.memo.get(frame); ok {
		return v
	}
	in := g.sum(frame, c)
	// a feedback loop through a delay may have computed this frame already
	if v, ok := g.memo.get(frame); ok {
		return v
	}
	v := in * g.Gain.sample(frame, c)
	g.memo.set(frame, v)
	return v
}
