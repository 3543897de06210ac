package graph

// Source produces one sample per frame. Implementations memoize by frame so a
// node feeding several destinations is computed once per frame.
type Source interface {
	sample(frame int64, c *Context) float64
}

// Sink accepts connections from sources; the inputs are summed
type Sink interface {
	inputs() *bus
}

// Connect routes src into dst. Connecting the same pair twice is a no-op.
func Connect(src Source, dst Sink) {
	dst.inputs().add(src)
}

// Disconnect removes src from dst's inputs
func Disconnect(src Source, dst Sink) {
	dst.inputs().remove(src)
}

// bus sums its connected sources
type bus struct {
	sources []Source
}

func (b *bus) inputs() *bus { return b }

func (b *bus) add(s Source) {
	for _, existing := range b.sources {
		if existing == s {
			return
		}
	}
	b.sources = append(b.sources, s)
}

func (b *bus) remove(s Source) {
	for i, existing := range b.sources {
		if existing == s {
			b.sources = append(b.sources[:i], b.sources[i+1:]...)
			return
		}
	}
}

func (b *bus) sum(frame int64, c *Context) float64 {
	var v float64
	for _, s := range b.sources {
		v += s.sample(frame, c)
	}
	return v
}

// Len returns the number of connected sources
func (b *bus) Len() int {
	return len(b.sources)
}

// memo caches a node's output for the frame being rendered
type memo struct {
	frame int64
	value float64
	valid bool
}

func (m *memo) get(frame int64) (float64, bool) {
	if m.valid && m.frame == frame {
		return m.value, true
	}
	return 0, false
}

func (m *memo) set(frame int64, v float64) {
	m.frame = frame
	m.value = v
	m.valid = true
}

// Destination is the context's output bus
type Destination struct {
	bus
}

func (d *Destination) sample(frame int64, c *Context) float64 {
	return d.sum(frame, c)
}
