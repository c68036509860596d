package compose

import (
	"math"

	"github.com/jsphweid/phonomidi/model"
)

// tolerance for offsets that accumulated float error
const epsilon = 1e-9

type window struct {
	start      float64
	length     float64
	found      bool
	pitchClass uint8
}

func (w window) note(pitch uint8, velocity uint8) model.ScoreNote {
	return model.ScoreNote{
		Offset:   w.start,
		Pitch:    pitch,
		Duration: w.length,
		Velocity: velocity,
	}
}

// windows tiles the melody's length with non-overlapping windows of size
// beats. The last window is cut short when the length is not a multiple of
// size. Each window takes the pitch class of the first melody note sounding
// inside it.
func windows(melody model.Part, size float64) []window {
	total := melody.Length()
	var res []window
	for i := 0; ; i++ {
		start := float64(i) * size
		if total-start <= epsilon {
			break
		}
		w := window{start: start, length: math.Min(size, total-start)}
		end := start + w.length
		for _, n := range melody.Notes {
			if n.Offset < end-epsilon && n.Offset+n.Duration > start+epsilon {
				w.found = true
				w.pitchClass = n.Pitch % 12
				break
			}
		}
		res = append(res, w)
	}
	return res
}
