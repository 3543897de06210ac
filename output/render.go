package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mitchellh/go-homedir"

	"go-stepsynth/debug"
	"go-stepsynth/graph"
)

// Ticker is driven once per tick period during an offline render
type Ticker interface {
	Tick() int
}

// RenderOptions controls an offline render
type RenderOptions struct {
	Seconds   float64
	TickEvery time.Duration // how often Tick runs in rendered time
	BitDepth  int           // 16 or 24
}

// RenderWAV renders opts.Seconds of g into w as a mono WAV, calling seq.Tick
// every opts.TickEvery of rendered time the way the live loop would.
// Returns the number of frames written.
func RenderWAV(w io.WriteSeeker, g *graph.Context, seq Ticker, opts RenderOptions) (int, error) {
	if opts.TickEvery <= 0 {
		opts.TickEvery = 100 * time.Millisecond
	}
	if opts.BitDepth == 0 {
		opts.BitDepth = 16
	}
	if opts.BitDepth != 16 && opts.BitDepth != 24 {
		return 0, fmt.Errorf("unsupported bit depth %d", opts.BitDepth)
	}

	sampleRate := g.SampleRate()
	total := int(math.Round(opts.Seconds * float64(sampleRate)))
	block := int(opts.TickEvery.Seconds() * float64(sampleRate))
	if block < 1 {
		block = 1
	}
	scale := float64(int(1)<<(opts.BitDepth-1) - 1)

	enc := wav.NewEncoder(w, sampleRate, opts.BitDepth, 1, 1)
	samples := make([]float32, block)
	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, block),
		SourceBitDepth: opts.BitDepth,
	}

	g.Resume()
	written := 0
	for written < total {
		if seq != nil {
			seq.Tick()
		}
		n := min(block, total-written)
		g.Render(samples[:n])
		for i, v := range samples[:n] {
			intBuf.Data[i] = int(float64(v) * scale)
		}
		intBuf.Data = intBuf.Data[:n]
		if err := enc.Write(intBuf); err != nil {
			return written, err
		}
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]
		written += n
	}

	if err := enc.Close(); err != nil {
		return written, err
	}
	debug.Log("audio", "rendered %d frames at %d Hz", written, sampleRate)
	return written, nil
}

// RenderFile renders into a WAV file at path
func RenderFile(path string, g *graph.Context, seq Ticker, opts RenderOptions) (int, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := RenderWAV(f, g, seq, opts)
	if err != nil {
		return n, fmt.Errorf("render %s: %w", path, err)
	}
	return n, nil
}
