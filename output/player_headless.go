//go:build headless

package output

import (
	"io"
	"sync"
	"time"

	"go-stepsynth/graph"
)

// Player renders a graph context in real time and discards the samples, so
// the clock advances on machines without an audio device.
type Player struct {
	src          *source
	bufferFrames int
	period       time.Duration

	mu      sync.Mutex
	started bool
	stop    chan struct{}
}

func NewPlayer(g *graph.Context, bufferFrames int) (*Player, error) {
	if bufferFrames <= 0 {
		bufferFrames = 1024
	}
	return &Player{
		src:          newSource(g),
		bufferFrames: bufferFrames,
		period:       time.Duration(bufferFrames) * time.Second / time.Duration(g.SampleRate()),
	}, nil
}

func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.stop = make(chan struct{})
	go p.run(p.stop)
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	close(p.stop)
	p.started = false
}

func (p *Player) Close() error {
	p.Stop()
	return nil
}

func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *Player) run(stop chan struct{}) {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	buf := make([]byte, p.bufferFrames*4)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			io.ReadFull(p.src, buf)
		}
	}
}
