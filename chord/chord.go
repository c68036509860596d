package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/phonomidi/model"
)

// Triad is the major triad on pitchClass in register. The third and fifth
// wrap within the octave, so the root is not always the lowest note.
func Triad(register, pitchClass uint8) []uint8 {
	return []uint8{
		register + pitchClass,
		register + (pitchClass+4)%12,
		register + (pitchClass+7)%12,
	}
}

// Dyad is the root plus the fifth above it.
func Dyad(register, pitchClass uint8) []uint8 {
	root := register + pitchClass
	return []uint8{root, root + 7}
}

// CreateChordKey formats notes low to high, e.g. "48-52-55". notes is left
// untouched.
func CreateChordKey(notes []uint8) string {
	sorted := make([]uint8, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	parts := make([]string, 0, len(sorted))
	for _, note := range sorted {
		parts = append(parts, fmt.Sprintf("%v", note))
	}
	return strings.Join(parts, "-")
}

type Onset struct {
	Tick  uint64
	Notes []uint8
}

// Onsets groups the sounding note-ons of a track by the tick they start at,
// in time order.
func Onsets(track model.Track) []Onset {
	var res []Onset
	var absTicks uint64
	for _, msg := range track {
		absTicks += uint64(msg.Delta)
		if msg.Type != model.NoteOn || msg.Velocity == 0 {
			continue
		}
		if n := len(res); n > 0 && res[n-1].Tick == absTicks {
			res[n-1].Notes = append(res[n-1].Notes, msg.Note)
			continue
		}
		res = append(res, Onset{Tick: absTicks, Notes: []uint8{msg.Note}})
	}
	return res
}
