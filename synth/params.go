package synth

import (
	"maps"
	"slices"
)

// Parameter names understood by the engine
const (
	ParamVibratoFreq  = "vibrato-freq"
	ParamVibratoDepth = "vibrato-depth"
	ParamTremoloFreq  = "tremolo-freq"
	ParamTremoloDepth = "tremolo-depth"
	ParamFilterQ      = "filter-q"
	ParamDelayVolume  = "delay-volume"
)

// ParamInfo describes a recognized parameter for UIs
type ParamInfo struct {
	Name    string
	Label   string
	Default float64
	Min     float64
	Max     float64
}

// Knobs lists the recognized parameters in display order
var Knobs = []ParamInfo{
	{ParamVibratoFreq, "Vibrato Freq", 0, 0, 100},
	{ParamVibratoDepth, "Vibrato Depth", 0, 0, 100},
	{ParamTremoloFreq, "Tremolo Freq", 0, 0, 100},
	{ParamTremoloDepth, "Tremolo Depth", 0, 0, 100},
	{ParamFilterQ, "Filter Q", 1, 0, 100},
	{ParamDelayVolume, "Delay Volume", 0, 0, 100},
}

// Params is the typed view of the parameter table read at note start
type Params struct {
	VibratoFreq  float64 // Hz
	VibratoDepth float64 // cents
	TremoloFreq  float64 // Hz
	TremoloDepth float64 // percent
	FilterQ      float64 // dB
	DelayVolume  float64 // percent
}

// paramTable stores values by name; names it doesn't recognize are kept too
type paramTable struct {
	values map[string]float64
}

func newParamTable() *paramTable {
	return &paramTable{values: make(map[string]float64)}
}

func (t *paramTable) set(name string, v float64) {
	t.values[name] = v
}

// get returns def when name was never set
func (t *paramTable) get(name string, def float64) float64 {
	if v, ok := t.values[name]; ok {
		return v
	}
	return def
}

func (t *paramTable) snapshot() Params {
	return Params{
		VibratoFreq:  t.get(ParamVibratoFreq, 0),
		VibratoDepth: t.get(ParamVibratoDepth, 0),
		TremoloFreq:  t.get(ParamTremoloFreq, 0),
		TremoloDepth: t.get(ParamTremoloDepth, 0),
		FilterQ:      t.get(ParamFilterQ, 1),
		DelayVolume:  t.get(ParamDelayVolume, 0),
	}
}

func (t *paramTable) names() []string {
	return slices.Sorted(maps.Keys(t.values))
}

// LookupKnob returns the description of a recognized parameter
func LookupKnob(name string) (ParamInfo, bool) {
	for _, k := range Knobs {
		if k.Name == name {
			return k, true
		}
	}
	return ParamInfo{}, false
}
