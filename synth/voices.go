package synth

import "go-stepsynth/graph"

// VoiceID identifies one sounding note. IDs increase monotonically and are never reused.
type VoiceID uint64

// voice is the per-note sub-graph
type voice struct {
	id      VoiceID
	pitch   int
	osc     *graph.Oscillator
	env     *graph.Gain
	outputs []graph.Source // nodes feeding the master bus
	tap     *Tap
	adsr    Envelope // envelope the voice started with
	tail    float64  // seconds the echo needs to die out after release
}

// voiceTable is an arena of voices with a free list, indexed by id
type voiceTable struct {
	slots []voice
	free  []int
	index map[VoiceID]int
	next  VoiceID
}

func newVoiceTable() *voiceTable {
	return &voiceTable{
		index: make(map[VoiceID]int),
		next:  1,
	}
}

func (vt *voiceTable) add(v voice) VoiceID {
	v.id = vt.next
	vt.next++

	var slot int
	if n := len(vt.free); n > 0 {
		slot = vt.free[n-1]
		vt.free = vt.free[:n-1]
		vt.slots[slot] = v
	} else {
		slot = len(vt.slots)
		vt.slots = append(vt.slots, v)
	}
	vt.index[v.id] = slot
	return v.id
}

func (vt *voiceTable) get(id VoiceID) (*voice, bool) {
	slot, ok := vt.index[id]
	if !ok {
		return nil, false
	}
	return &vt.slots[slot], true
}

// remove returns the voice so the caller can finish tearing it down
func (vt *voiceTable) remove(id VoiceID) (voice, bool) {
	slot, ok := vt.index[id]
	if !ok {
		return voice{}, false
	}
	v := vt.slots[slot]
	vt.slots[slot] = voice{}
	vt.free = append(vt.free, slot)
	delete(vt.index, id)
	return v, true
}

func (vt *voiceTable) len() int {
	return len(vt.index)
}
