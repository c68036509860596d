// Package encoder turns IPA strings into melodic note sequences. Encoding
// never fails: unknown phonemes degrade to a fixed fallback note.
package encoder

import (
	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/model"
	"github.com/jsphweid/phonomidi/phoneme"
)

var fallbackNote = model.NoteEvent{
	Pitch:    constants.FallbackPitch,
	Duration: constants.FallbackDuration,
	Velocity: constants.FallbackVelocity,
}

func FallbackNote() model.NoteEvent {
	return fallbackNote
}

func IPAToNotes(ipa string, table *mapping.Table) model.Notes {
	tokens := phoneme.IPAToPhonemes(ipa, table)
	notes := make(model.Notes, 0, len(tokens))
	for _, token := range tokens {
		if token == model.WordBoundary {
			notes = append(notes, table.Sentinel())
			continue
		}
		if n, ok := table.Lookup(phoneme.StripStress(token)); ok {
			notes = append(notes, n)
		} else {
			notes = append(notes, fallbackNote)
		}
	}
	return notes
}

// TextToMusicNotes returns the IPA string for text and its melodic notes.
func TextToMusicNotes(text string, dict phoneme.Pronouncer, table *mapping.Table) (string, model.Notes) {
	ipa := phoneme.TextToIPA(text, dict)
	return ipa, IPAToNotes(ipa, table)
}
