package model

// ScoreNote is a note placed on a part's timeline. Offset and Duration are
// in beats. Chord tones share an offset.
type ScoreNote struct {
	Offset   float64
	Pitch    uint8
	Duration float64
	Velocity uint8
}

type Part struct {
	Name    string
	Channel uint8
	Program uint8
	Notes   []ScoreNote
}

// Events returns the part's notes as bare triples, in timeline order.
func (p Part) Events() Notes {
	res := make(Notes, 0, len(p.Notes))
	for _, n := range p.Notes {
		res = append(res, NoteEvent{Pitch: n.Pitch, Duration: n.Duration, Velocity: n.Velocity})
	}
	return res
}

// Length is the end of the last sounding note, in beats.
func (p Part) Length() float64 {
	var end float64
	for _, n := range p.Notes {
		if e := n.Offset + n.Duration; e > end {
			end = e
		}
	}
	return end
}

type Score struct {
	Melody  Part
	Bass    Part
	Harmony Part
	Pad     Part
}

// Parts returns the parts in track order.
func (s Score) Parts() []Part {
	return []Part{s.Melody, s.Bass, s.Harmony, s.Pad}
}
