package synth

import (
	"errors"
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// ErrInvalidPitch is returned for pitches outside the MIDI range
var ErrInvalidPitch = errors.New("invalid pitch")

const (
	MinPitch = 0
	MaxPitch = 127
)

// Frequency converts a MIDI pitch to Hz with A4 (69) at 440 Hz
func Frequency(pitch int) (float64, error) {
	if pitch < MinPitch || pitch > MaxPitch {
		return 0, fault.Wrap(ErrInvalidPitch,
			fmsg.WithDesc(fmt.Sprintf("pitch %d out of range", pitch),
				fmt.Sprintf("Note %d is outside %d-%d", pitch, MinPitch, MaxPitch)),
			ftag.With(ftag.InvalidArgument),
		)
	}
	return 440 * math.Pow(2, float64(pitch-69)/12), nil
}
