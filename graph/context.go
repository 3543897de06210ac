package graph

import (
	"math"
	"sync"
	"sync/atomic"
)

// DefaultSampleRate is used when a context is created with a zero rate
const DefaultSampleRate = 44100

// Context owns the rendering graph and the audio clock.
// Time only advances while the context is running and something calls Render.
type Context struct {
	mu         sync.Mutex
	sampleRate float64
	frame      atomic.Int64
	running    atomic.Bool

	dest   *Destination
	events eventQueue
}

// NewContext creates a suspended context at the given sample rate
func NewContext(sampleRate int) *Context {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	c := &Context{sampleRate: float64(sampleRate)}
	c.dest = &Destination{}
	return c
}

// SampleRate returns the sample rate in Hz
func (c *Context) SampleRate() int {
	return int(c.sampleRate)
}

// Now returns the current clock time in seconds (frames rendered / sample rate)
func (c *Context) Now() float64 {
	return float64(c.frame.Load()) / c.sampleRate
}

// Resume lets Render advance the clock
func (c *Context) Resume() {
	c.running.Store(true)
}

// Suspend freezes the clock; Render outputs silence until Resume
func (c *Context) Suspend() {
	c.running.Store(false)
}

// Running reports whether the clock is advancing
func (c *Context) Running() bool {
	return c.running.Load()
}

// Destination returns the final output bus
func (c *Context) Destination() *Destination {
	return c.dest
}

// Update runs fn with the graph locked so that a batch of connections and
// automation calls lands between two rendered frames.
func (c *Context) Update(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// At schedules fn to run on the render goroutine once the clock reaches t.
// fn runs with the graph locked and must not call Update.
// Must be called from within Update.
func (c *Context) At(t float64, fn func()) {
	frame := int64(math.Ceil(t * c.sampleRate))
	c.events.push(frame, fn)
}

// Pending returns the number of scheduled callbacks that have not fired
func (c *Context) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.len()
}

// Render fills out with mono samples and advances the clock by len(out) frames.
func (c *Context) Render(out []float32) {
	if !c.running.Load() {
		clear(out)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	frame := c.frame.Load()
	for i := range out {
		c.events.fire(frame)
		v := c.dest.sample(frame, c)
		out[i] = float32(clamp(v, -1, 1))
		frame++
	}
	c.frame.Store(frame)
}

func (c *Context) frameTime(frame int64) float64 {
	return float64(frame) / c.sampleRate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
