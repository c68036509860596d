// Package decoder maps extracted notes back to phonemes and phonemes back to
// words.
package decoder

import (
	"strings"

	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/model"
)

// Trim drops the intro and outro arpeggios the composer adds. Only sequences
// produced by this encoder carry them.
func Trim(notes model.Notes) model.Notes {
	if len(notes) <= 2*constants.ArpeggioLength {
		return nil
	}
	return notes[constants.ArpeggioLength : len(notes)-constants.ArpeggioLength]
}

// NotesToPhonemes matches every note against the table. Sentinel notes are
// boundaries without a distance search.
func NotesToPhonemes(notes model.Notes, table *mapping.Table) []model.PhonemeToken {
	res := make([]model.PhonemeToken, 0, len(notes))
	for _, n := range notes {
		if table.IsBoundary(n) {
			res = append(res, model.WordBoundary)
			continue
		}
		symbol, _ := table.Nearest(n)
		res = append(res, symbol)
	}
	return res
}

// NotesToIPA trims the arpeggios and returns the concatenated phonemes.
func NotesToIPA(notes model.Notes, table *mapping.Table) string {
	return strings.Join(NotesToPhonemes(Trim(notes), table), "")
}

// SplitWords splits an IPA string on boundaries and drops empty words.
func SplitWords(ipa string) []string {
	var res []string
	for _, w := range strings.Split(ipa, model.WordBoundary) {
		if w != "" {
			res = append(res, w)
		}
	}
	return res
}

func MusicToText(notes model.Notes, table *mapping.Table, resolver *Resolver) string {
	return resolver.Text(SplitWords(NotesToIPA(notes, table)))
}
