// Package phoneme converts text to IPA strings and IPA strings to phoneme
// tokens.
package phoneme

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
)

// Pronouncer returns the preferred pronunciation of a lowercase word.
type Pronouncer interface {
	First(word string) (string, bool)
}

// Symbols is the set of phoneme symbols tokens are matched against.
type Symbols interface {
	Contains(symbol string) bool
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stressReplacer = strings.NewReplacer(constants.PrimaryStress, "", constants.SecondaryStress, "")

func StripStress(s string) string {
	return stressReplacer.Replace(s)
}

// Words splits text into lowercase alphanumeric runs.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// TextToIPA replaces every word with its first pronunciation. Words missing
// from the dictionary are passed through as-is so they get spelled out.
func TextToIPA(text string, dict Pronouncer) string {
	words := Words(text)
	res := make([]string, 0, len(words))
	for _, word := range words {
		if ipa, ok := dict.First(word); ok {
			res = append(res, ipa)
			continue
		}
		slog.Debug("word not in dictionary, spelling it out", "word", word)
		res = append(res, word)
	}
	return strings.Join(res, model.WordBoundary)
}

// IPAToPhonemes splits on word boundaries first, tokenizes each word and puts
// one boundary token between consecutive words. Inside a word two-character
// symbols win over one-character symbols; characters matching neither are
// dropped.
func IPAToPhonemes(ipa string, symbols Symbols) []model.PhonemeToken {
	words := strings.Split(ipa, model.WordBoundary)
	var res []model.PhonemeToken
	for i, word := range words {
		res = append(res, tokenizeWord(word, symbols)...)
		if i < len(words)-1 {
			res = append(res, model.WordBoundary)
		}
	}
	return res
}

func tokenizeWord(word string, symbols Symbols) []model.PhonemeToken {
	runes := []rune(word)
	var res []model.PhonemeToken
	for i := 0; i < len(runes); {
		if i+1 < len(runes) {
			if pair := string(runes[i : i+2]); symbols.Contains(pair) {
				res = append(res, pair)
				i += 2
				continue
			}
		}
		if single := string(runes[i]); symbols.Contains(single) {
			res = append(res, single)
		} else {
			slog.Debug("dropping unmapped character", "char", single, "word", word)
		}
		i++
	}
	return res
}
