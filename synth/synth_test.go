package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/Southclaws/fault/ftag"

	"go-stepsynth/graph"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *graph.Context) {
	t.Helper()
	ctx := graph.NewContext(8000)
	return New(ctx, opts...), ctx
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFrequency(t *testing.T) {
	for _, tc := range []struct {
		pitch int
		want  float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6255653005986},
	} {
		got, err := Frequency(tc.pitch)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Frequency(%d) = %v, want %v", tc.pitch, got, tc.want)
		}
	}
}

func TestInvalidPitch(t *testing.T) {
	s, _ := newTestEngine(t)
	for _, pitch := range []int{-1, 128, 300} {
		_, err := s.Start(pitch, 0, 1)
		if !errors.Is(err, ErrInvalidPitch) {
			t.Fatalf("Start(%d) err = %v, want ErrInvalidPitch", pitch, err)
		}
		if ftag.Get(err) != ftag.InvalidArgument {
			t.Errorf("Start(%d) kind = %v, want invalid argument", pitch, ftag.Get(err))
		}
	}
	if n := s.ActiveVoices(); n != 0 {
		t.Fatalf("invalid pitch created %d voices", n)
	}
	if err := s.ScheduleNote(128, 0, 1, 1); !errors.Is(err, ErrInvalidPitch) {
		t.Fatalf("ScheduleNote err = %v", err)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	s, _ := newTestEngine(t, WithEnvelope(Envelope{A: 0.1, D: 0.1, S: 0.8, R: 0.15}))
	const start = 0.5

	id, err := s.Start(60, start, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := s.voices.get(id)
	if !ok {
		t.Fatal("voice not registered")
	}
	env := v.env.Gain
	s.Stop(id, start+1.0)

	for _, tc := range []struct{ t, want float64 }{
		{start, 0},
		{start + 0.05, 0.4},
		{start + 0.1, 0.8},
		{start + 0.2, 0.8},
		{start + 1.0, 0.8},
		{start + 1.075, 0.4},
		{start + 1.15, 0},
		{start + 2, 0},
	} {
		if got := env.ValueAt(tc.t); !near(got, tc.want) {
			t.Errorf("envelope(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
	if stop := v.osc.StopTime(); !near(stop, start+1.15) {
		t.Errorf("oscillator stops at %v, want %v", stop, start+1.15)
	}
}

func TestSustainNotClampedToVelocity(t *testing.T) {
	s, _ := newTestEngine(t)
	id, err := s.Start(60, 0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := s.voices.get(id)
	if got := v.env.Gain.ValueAt(0.5); !near(got, DefaultEnvelope.S) {
		t.Fatalf("sustain = %v, want %v above a 0.5 peak", got, DefaultEnvelope.S)
	}
}

func TestStopDuringAttackHoldsCurrentLevel(t *testing.T) {
	s, _ := newTestEngine(t)
	id, _ := s.Start(60, 0, 1)
	v, _ := s.voices.get(id)
	s.Stop(id, 0.05)

	env := v.env.Gain
	if got := env.ValueAt(0.05); !near(got, 0.5) {
		t.Fatalf("level at stop = %v, want 0.5", got)
	}
	if got := env.ValueAt(0.05 + DefaultEnvelope.R/2); !near(got, 0.25) {
		t.Fatalf("release midpoint = %v, want 0.25", got)
	}
}

func TestVoiceIDsAndDoubleStop(t *testing.T) {
	s, _ := newTestEngine(t)
	a, _ := s.Start(60, 0, 1)
	b, _ := s.Start(60, 0, 1)
	if b <= a {
		t.Fatalf("ids not increasing: %d then %d", a, b)
	}
	if s.ActiveVoices() != 2 {
		t.Fatalf("active = %d, want 2", s.ActiveVoices())
	}

	s.Stop(a, 1)
	s.Stop(a, 2)
	s.Stop(VoiceID(9999), 1)
	if s.ActiveVoices() != 1 {
		t.Fatalf("active = %d, want 1", s.ActiveVoices())
	}

	c, _ := s.Start(62, 0, 1)
	if c <= b {
		t.Fatalf("id %d reused after free, want > %d", c, b)
	}
}

func TestParameters(t *testing.T) {
	s, _ := newTestEngine(t, WithParams(map[string]float64{ParamDelayVolume: 50}))

	if got := s.GetParameter("nonexistent", 7); got != 7 {
		t.Fatalf("unknown name = %v, want default 7", got)
	}
	if got := s.GetParameter(ParamFilterQ, 3); got != 3 {
		t.Fatalf("unset name = %v, want default 3", got)
	}
	if got := s.Params().FilterQ; got != 1 {
		t.Fatalf("typed FilterQ default = %v, want 1", got)
	}

	s.SetParameter(ParamVibratoDepth, 12)
	s.SetParameter("custom", 4)
	if got := s.GetParameter(ParamVibratoDepth, 0); got != 12 {
		t.Fatalf("vibrato-depth = %v, want 12", got)
	}
	if got := s.GetParameter("custom", 0); got != 4 {
		t.Fatalf("custom = %v, want 4", got)
	}
	if got := s.Params().DelayVolume; got != 50 {
		t.Fatalf("DelayVolume = %v, want 50", got)
	}
	names := s.ParameterNames()
	if len(names) != 3 || names[0] != "custom" {
		t.Fatalf("names = %v", names)
	}
}

func TestParametersReadAtStart(t *testing.T) {
	s, _ := newTestEngine(t)
	s.SetParameter(ParamTremoloDepth, 50)
	s.SetParameter(ParamVibratoDepth, 20)
	s.SetParameter(ParamVibratoFreq, 5)
	id, _ := s.Start(60, 0, 1)
	v, _ := s.voices.get(id)

	s.SetParameter(ParamTremoloDepth, 100)
	if got := v.tap.Tremolo.Gain.Value(); got != 0.5 {
		t.Fatalf("tremolo depth = %v, want 0.5 from value at start", got)
	}
	if got := v.tap.Vibrato.Gain.Value(); got != 20 {
		t.Fatalf("vibrato depth = %v, want 20 cents", got)
	}
	if got := s.mods.vibrato.Frequency.Value(); got != 5 {
		t.Fatalf("vibrato rate = %v, want 5", got)
	}

	s.SetParameter(ParamVibratoFreq, 9)
	s.Start(62, 0, 1)
	if got := s.mods.vibrato.Frequency.Value(); got != 9 {
		t.Fatalf("vibrato rate = %v, want retargeted to 9", got)
	}
}

func TestMuteLeavesVoicesRunning(t *testing.T) {
	s, ctx := newTestEngine(t)
	ctx.Resume()
	ctx.Render(make([]float32, 800))
	now := ctx.Now()

	id, _ := s.Start(60, now, 1)
	v, _ := s.voices.get(id)
	before := v.env.Gain.Events()

	s.Mute()
	if got := s.Volume().ValueAt(now + 0.1); got != 0 {
		t.Fatalf("volume after mute ramp = %v, want 0", got)
	}
	if got := s.Volume().ValueAt(now + 0.05); !near(got, 0.5) {
		t.Fatalf("volume mid ramp = %v, want 0.5", got)
	}
	if v.env.Gain.Events() != before {
		t.Fatal("mute touched the voice envelope")
	}
	if s.ActiveVoices() != 1 {
		t.Fatal("mute removed voices")
	}

	s.UnMute()
	if got := s.Volume().ValueAt(now + 1); got != 1 {
		t.Fatalf("volume after unmute = %v, want 1", got)
	}
}

func TestReleasedVoiceDetachesAfterTail(t *testing.T) {
	s, ctx := newTestEngine(t)
	ctx.Resume()
	if err := s.ScheduleNote(60, 0, 0.1, 1); err != nil {
		t.Fatal(err)
	}
	if ctx.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 detach", ctx.Pending())
	}
	if n := s.master.Len(); n != 2 {
		t.Fatalf("master inputs = %d, want 2", n)
	}

	ctx.Render(make([]float32, 8000))
	if n := s.master.Len(); n != 0 {
		t.Fatalf("master inputs after tail = %d, want 0", n)
	}
}

func TestPlayNoteSounds(t *testing.T) {
	s, ctx := newTestEngine(t)
	ctx.Resume()
	if err := s.PlayNote(69, 0.3, 1); err != nil {
		t.Fatal(err)
	}

	out := make([]float32, 2400)
	ctx.Render(out)
	peak := float32(0)
	for _, v := range out {
		if v > peak {
			peak = v
		}
	}
	if peak < 0.05 {
		t.Fatalf("peak %v, want audible output", peak)
	}
}

func TestEchoTail(t *testing.T) {
	if got := echoTail(0); got != echoTime {
		t.Fatalf("no feedback tail = %v", got)
	}
	if got := echoTail(0.8); got < 4 || got > maxTail {
		t.Fatalf("0.8 feedback tail = %v", got)
	}
	if got := echoTail(1); got != maxTail {
		t.Fatalf("unity feedback tail = %v", got)
	}
}

func TestStopUsesEnvelopeFromStart(t *testing.T) {
	s, _ := newTestEngine(t, WithEnvelope(Envelope{A: 0.1, D: 0.1, S: 0.8, R: 0.2}))
	id, _ := s.Start(60, 0, 1)
	v, _ := s.voices.get(id)
	env, osc := v.env.Gain, v.osc

	s.mu.Lock()
	s.envelope = Envelope{A: 0.5, D: 0.5, S: 0.5, R: 2}
	s.mu.Unlock()
	s.Stop(id, 1)

	if got := env.ValueAt(1.1); !near(got, 0.4) {
		t.Errorf("release midpoint = %v, want 0.4", got)
	}
	if got := env.ValueAt(1.2); !near(got, 0) {
		t.Errorf("level after release = %v, want 0", got)
	}
	if stop := osc.StopTime(); !near(stop, 1.2) {
		t.Errorf("oscillator stops at %v, want 1.2", stop)
	}
}

func TestWithWaveform(t *testing.T) {
	s, _ := newTestEngine(t, WithWaveform(graph.Sawtooth))
	id, _ := s.Start(60, 0, 1)
	v, _ := s.voices.get(id)
	if v.osc.Type != graph.Sawtooth {
		t.Fatalf("oscillator type = %v, want sawtooth", v.osc.Type)
	}

	s, _ = newTestEngine(t)
	id, _ = s.Start(60, 0, 1)
	v, _ = s.voices.get(id)
	if v.osc.Type != graph.Sine {
		t.Fatalf("default oscillator type = %v, want sine", v.osc.Type)
	}
}
