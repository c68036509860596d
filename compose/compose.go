// Package compose expands a melodic note sequence into a four part score:
// the melody wrapped in arpeggios, plus bass, harmony and pad parts derived
// from fixed-size windows over the melody.
package compose

import (
	"github.com/jsphweid/phonomidi/chord"
	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
)

func ComposeTracks(notes model.Notes) model.Score {
	melody := Melody(notes)
	return model.Score{
		Melody:  melody,
		Bass:    Bass(melody),
		Harmony: Harmony(melody),
		Pad:     Pad(melody),
	}
}

// Melody lays notes out back to back between an ascending intro arpeggio and
// a descending outro arpeggio. Main note durations follow the rhythmic
// variation rule in Vary.
func Melody(notes model.Notes) model.Part {
	part := model.Part{
		Name:    constants.MelodyTrackName,
		Channel: 0,
		Program: constants.ProgramPiano,
	}
	if len(notes) == 0 {
		return part
	}

	var offset float64
	add := func(pitch uint8, duration float64, velocity uint8) {
		part.Notes = append(part.Notes, model.ScoreNote{
			Offset:   offset,
			Pitch:    pitch,
			Duration: duration,
			Velocity: velocity,
		})
		offset += duration
	}

	intro := notes[0].Pitch%12 + constants.IntroRegister
	for _, pitch := range []uint8{intro, intro + 4, intro + 7, intro + 12} {
		add(pitch, constants.ArpeggioDuration, constants.ArpeggioVelocity)
	}

	for i, n := range notes {
		add(n.Pitch, Vary(i, n.Duration), n.Velocity)
	}

	outro := notes[len(notes)-1].Pitch%12 + constants.OutroRegister
	for _, pitch := range []uint8{outro + 12, outro + 7, outro + 4, outro} {
		add(pitch, constants.ArpeggioDuration, constants.ArpeggioVelocity)
	}
	return part
}

// Vary scales the duration of the i-th main note: every 4th note is
// stretched, the one two places after it is compressed.
func Vary(i int, duration float64) float64 {
	switch i % constants.VariationPeriod {
	case 0:
		return duration * constants.StretchFactor
	case 2:
		return duration * constants.CompressFactor
	}
	return duration
}

func Bass(melody model.Part) model.Part {
	part := model.Part{
		Name:    constants.BassTrackName,
		Channel: 1,
		Program: constants.ProgramAcousticBass,
	}
	for _, w := range windows(melody, constants.BassWindow) {
		pitch := uint8(constants.BassRegister)
		if w.found {
			pitch += w.pitchClass
		}
		part.Notes = append(part.Notes, w.note(pitch, constants.BassVelocity))
	}
	return part
}

// Harmony places a major triad on the pitch class of each window. The third
// and fifth wrap within the octave.
func Harmony(melody model.Part) model.Part {
	part := model.Part{
		Name:    constants.HarmonyTrackName,
		Channel: 2,
		Program: constants.ProgramStringEnsemble,
	}
	for _, w := range windows(melody, constants.HarmonyWindow) {
		var root uint8
		if w.found {
			root = w.pitchClass
		}
		for _, pitch := range chord.Triad(constants.HarmonyRegister, root) {
			part.Notes = append(part.Notes, w.note(pitch, constants.HarmonyVelocity))
		}
	}
	return part
}

func Pad(melody model.Part) model.Part {
	part := model.Part{
		Name:    constants.PadTrackName,
		Channel: 3,
		Program: constants.ProgramWarmPad,
	}
	for _, w := range windows(melody, constants.PadWindow) {
		var root uint8
		if w.found {
			root = w.pitchClass
		}
		for _, pitch := range chord.Dyad(constants.PadRegister, root) {
			part.Notes = append(part.Notes, w.note(pitch, constants.PadVelocity))
		}
	}
	return part
}
