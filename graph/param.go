package graph

import "math"

type automationKind int

const (
	setValue automationKind = iota
	linearRamp
)

type automationEvent struct {
	kind  automationKind
	time  float64
	value float64
}

// Param is an automatable node parameter. Its value at a frame is the
// automation curve (or the intrinsic value when there is none) plus the sum of
// any sources connected to it.
type Param struct {
	bus
	value  float64
	events []automationEvent
	memo   memo
}

func newParam(v float64) *Param {
	return &Param{value: v}
}

// Value returns the intrinsic value
func (p *Param) Value() float64 {
	return p.value
}

// SetValue sets the intrinsic value, used while no automation is scheduled
func (p *Param) SetValue(v float64) {
	p.value = v
}

// SetValueAtTime jumps to v at time t
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(automationEvent{kind: setValue, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v, arriving at t
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(automationEvent{kind: linearRamp, time: t, value: v})
}

// CancelScheduledValues removes every event at or after t
func (p *Param) CancelScheduledValues(t float64) {
	for i, e := range p.events {
		if e.time >= t {
			p.events = p.events[:i]
			return
		}
	}
}

// CancelAndHoldAtTime removes every event at or after t and holds the value
// the curve had at t, so later ramps start from there.
func (p *Param) CancelAndHoldAtTime(t float64) {
	v := p.ValueAt(t)
	p.CancelScheduledValues(t)
	p.SetValueAtTime(v, t)
}

// ValueAt evaluates the automation curve at t, ignoring connected inputs
func (p *Param) ValueAt(t float64) float64 {
	prev := -1
	for i, e := range p.events {
		if e.time > t {
			break
		}
		prev = i
	}

	next := prev + 1
	if next < len(p.events) && p.events[next].kind == linearRamp {
		end := p.events[next]
		startTime, startValue := 0.0, p.value
		if prev >= 0 {
			startTime, startValue = p.events[prev].time, p.events[prev].value
		}
		span := end.time - startTime
		if span <= 0 {
			return end.value
		}
		return startValue + (end.value-startValue)*(t-startTime)/span
	}

	if prev >= 0 {
		return p.events[prev].value
	}
	return p.value
}

// Events returns the number of scheduled automation events
func (p *Param) Events() int {
	return len(p.events)
}

func (p *Param) insert(e automationEvent) {
	if math.IsNaN(e.time) || math.IsNaN(e.value) {
		return
	}
	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = append(p.events, automationEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *Param) sample(frame int64, c *Context) float64 {
	if v, ok := p.memo.get(frame); ok {
		return v
	}
	v := p.ValueAt(c.frameTime(frame)) + p.sum(frame, c)
	p.memo.set(frame, v)
	return v
}
