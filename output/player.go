//go:build !headless

package output

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"go-stepsynth/debug"
	"go-stepsynth/graph"
)

// Player streams a graph context to the default audio device
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	src    *source
	// Only for setup/control operations
	mu      sync.Mutex
	started bool
}

// NewPlayer opens the audio device at g's sample rate. Only one Player may
// exist per process.
func NewPlayer(g *graph.Context, bufferFrames int) (*Player, error) {
	sampleRate := g.SampleRate()
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &Player{
		ctx: ctx,
		src: newSource(g),
	}
	p.player = ctx.NewPlayer(p.src)
	debug.Log("audio", "device open: %d Hz, %d frame buffer", sampleRate, bufferFrames)
	return p, nil
}

// Start begins pulling samples from the graph
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// Stop pauses the device; the graph clock stops advancing
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started && p.player != nil {
		p.player.Pause()
		p.started = false
	}
}

// Close releases the device
func (p *Player) Close() error {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player != nil {
		err := p.player.Close()
		p.player = nil
		return err
	}
	return nil
}

// IsStarted reports whether the device is pulling samples
func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
