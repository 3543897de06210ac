package output

import (
	"encoding/binary"
	"math"

	"go-stepsynth/graph"
)

// source adapts a graph context to an io.Reader of mono float32 little-endian samples
type source struct {
	g   *graph.Context
	buf []float32
}

func newSource(g *graph.Context) *source {
	return &source{g: g, buf: make([]float32, 4096)}
}

// Read renders len(p)/4 frames; trailing bytes that don't fill a frame are left unread
func (s *source) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if len(s.buf) < frames {
		s.buf = make([]float32, frames)
	}
	samples := s.buf[:frames]
	s.g.Render(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * 4, nil
}
