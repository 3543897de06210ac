package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"go-stepsynth/graph"
	"go-stepsynth/sequencer"
	"go-stepsynth/synth"
)

// AudioConfig selects the output format
type AudioConfig struct {
	SampleRate   int `json:"sampleRate"`
	BufferFrames int `json:"bufferFrames"`
}

// TransportConfig sets the bar grid and scheduler timing
type TransportConfig struct {
	StepsPerBar    int     `json:"stepsPerBar"`
	StepDuration   float64 `json:"stepDuration"`  // seconds
	ScheduleAhead  float64 `json:"scheduleAhead"` // seconds
	TickIntervalMs int     `json:"tickIntervalMs"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Preset  string `json:"preset,omitempty"`
	Palette string `json:"palette,omitempty"` // path to a .gpl file; built-in when empty
}

// Config is the main configuration structure
type Config struct {
	Audio     AudioConfig               `json:"audio"`
	Transport TransportConfig           `json:"transport"`
	Envelope  synth.Envelope            `json:"envelope"`
	Waveform  string                    `json:"waveform,omitempty"` // sine, square, sawtooth or triangle
	Params    map[string]float64        `json:"params,omitempty"`
	UI        UIConfig                  `json:"ui,omitempty"`
	Pattern   []sequencer.ScheduledNote `json:"pattern,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:   44100,
			BufferFrames: 1024,
		},
		Transport: TransportConfig{
			StepsPerBar:    sequencer.DefaultStepsPerBar,
			StepDuration:   sequencer.DefaultStepDuration,
			ScheduleAhead:  sequencer.DefaultScheduleAhead,
			TickIntervalMs: int(sequencer.DefaultTickInterval.Milliseconds()),
		},
		Envelope: synth.DefaultEnvelope,
		Waveform: graph.Sine.String(),
		Params: map[string]float64{
			synth.ParamFilterQ: 1,
		},
		UI: UIConfig{
			Preset: sequencer.DefaultPreset,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	return homedir.Expand("~/.config/go-stepsynth")
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("audio.sampleRate must be positive, got %d", c.Audio.SampleRate)
	case c.Audio.BufferFrames <= 0:
		return fmt.Errorf("audio.bufferFrames must be positive, got %d", c.Audio.BufferFrames)
	case c.Transport.StepsPerBar <= 0:
		return fmt.Errorf("transport.stepsPerBar must be positive, got %d", c.Transport.StepsPerBar)
	case c.Transport.StepDuration <= 0:
		return fmt.Errorf("transport.stepDuration must be positive, got %g", c.Transport.StepDuration)
	case c.Transport.ScheduleAhead <= 0:
		return fmt.Errorf("transport.scheduleAhead must be positive, got %g", c.Transport.ScheduleAhead)
	case c.Transport.TickIntervalMs < 0:
		return fmt.Errorf("transport.tickIntervalMs must not be negative, got %d", c.Transport.TickIntervalMs)
	}
	if c.Waveform != "" {
		if _, err := graph.ParseWaveform(c.Waveform); err != nil {
			return fmt.Errorf("waveform: %w", err)
		}
	}
	for name, v := range c.Params {
		knob, ok := synth.LookupKnob(name)
		if !ok {
			continue
		}
		if v < knob.Min || v > knob.Max {
			return fmt.Errorf("params.%s must be within %g-%g, got %g", name, knob.Min, knob.Max, v)
		}
	}
	return nil
}

// TransportOptions converts the transport section into sequencer options
func (c *Config) TransportOptions() []sequencer.Option {
	return []sequencer.Option{
		sequencer.WithStepsPerBar(c.Transport.StepsPerBar),
		sequencer.WithStepDuration(c.Transport.StepDuration),
		sequencer.WithScheduleAhead(c.Transport.ScheduleAhead),
		sequencer.WithTickInterval(time.Duration(c.Transport.TickIntervalMs) * time.Millisecond),
	}
}

// SynthOptions converts the envelope, waveform and params sections into engine options
func (c *Config) SynthOptions() []synth.Option {
	opts := []synth.Option{
		synth.WithEnvelope(c.Envelope),
		synth.WithParams(c.Params),
	}
	if w, err := graph.ParseWaveform(c.Waveform); err == nil {
		opts = append(opts, synth.WithWaveform(w))
	}
	return opts
}
