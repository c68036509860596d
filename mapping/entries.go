package mapping

import (
	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
)

const (
	consonant = 0.25
	fricative = 0.375
	vowel     = 0.5
	diphthong = 0.75
)

const (
	voiceless = 68
	voiced    = 84
	lax       = 92
	tense     = 100
)

func entry(symbol string, pitch uint8, duration float64, velocity uint8) model.MappingEntry {
	return model.MappingEntry{
		Symbol: symbol,
		Note:   model.NoteEvent{Pitch: pitch, Duration: duration, Velocity: velocity},
	}
}

// Every symbol owns a distinct pitch. Consonants sit below middle C and
// vowels above it; affricates and letters that only appear in spelled-out
// words take the top of the range.
var defaultEntries = []model.MappingEntry{
	entry(model.WordBoundary, constants.SentinelPitch, constants.SentinelDuration, constants.SentinelVelocity),

	// stops
	entry("p", 36, consonant, voiceless),
	entry("b", 37, consonant, voiced),
	entry("t", 38, consonant, voiceless),
	entry("d", 39, consonant, voiced),
	entry("k", 40, consonant, voiceless),
	entry("ɡ", 41, consonant, voiced),
	entry("g", 42, consonant, voiced),
	entry("ʔ", 43, consonant, voiceless),

	// fricatives
	entry("f", 44, fricative, voiceless),
	entry("v", 45, fricative, voiced),
	entry("θ", 46, fricative, voiceless),
	entry("ð", 47, fricative, voiced),
	entry("s", 48, fricative, voiceless),
	entry("z", 49, fricative, voiced),
	entry("ʃ", 50, fricative, voiceless),
	entry("ʒ", 51, fricative, voiced),
	entry("h", 52, fricative, voiceless),

	// nasals and approximants
	entry("m", 53, consonant, voiced),
	entry("n", 54, consonant, voiced),
	entry("ŋ", 55, consonant, voiced),
	entry("l", 56, consonant, voiced),
	entry("ɫ", 57, consonant, voiced),
	entry("ɹ", 58, consonant, voiced),
	entry("r", 59, consonant, voiced),

	// vowels
	entry("u", 60, vowel, tense),
	entry("ʊ", 61, vowel, lax),
	entry("o", 62, vowel, tense),
	entry("ɔ", 63, vowel, lax),
	entry("ʌ", 64, vowel, lax),
	entry("ɑ", 65, vowel, tense),
	entry("ə", 66, vowel, lax),
	entry("æ", 67, vowel, lax),
	entry("ɝ", 68, vowel, tense),
	entry("ɛ", 69, vowel, lax),
	entry("ɚ", 70, vowel, lax),
	entry("ɪ", 71, vowel, lax),
	entry("i", 72, vowel, tense),
	entry("ɒ", 73, vowel, lax),
	entry("e", 74, vowel, tense),
	entry("y", 75, vowel, tense),
	entry("a", 76, vowel, tense),
	entry("ɐ", 77, vowel, lax),

	// diphthongs
	entry("eɪ", 78, diphthong, tense),
	entry("aɪ", 79, diphthong, tense),
	entry("oʊ", 80, diphthong, tense),
	entry("aʊ", 81, diphthong, tense),
	entry("ɔɪ", 82, diphthong, tense),

	// glides and affricates
	entry("j", 83, consonant, voiced),
	entry("w", 84, consonant, voiced),
	entry("tʃ", 85, fricative, voiceless),
	entry("dʒ", 86, fricative, voiced),
	entry("ɾ", 87, consonant, voiced),

	// spelled-out letters
	entry("c", 88, consonant, voiceless),
	entry("q", 89, consonant, voiceless),
	entry("x", 90, fricative, voiceless),
}
