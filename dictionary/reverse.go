package dictionary

import (
	"strings"

	"github.com/jsphweid/phonomidi/phoneme"
)

// ReverseIndex maps a normalized pronunciation to the first word that had it.
type ReverseIndex struct {
	keys  []string
	words map[string]string
}

// Normalize removes stress marks and spaces.
func Normalize(pron string) string {
	return strings.ReplaceAll(phoneme.StripStress(pron), " ", "")
}

// BuildReverseIndex walks the dictionary in file order. When two words share
// a normalized pronunciation the earlier one is kept.
func BuildReverseIndex(d *Dictionary) *ReverseIndex {
	ri := &ReverseIndex{words: make(map[string]string)}
	for _, word := range d.words {
		for _, pron := range d.prons[word] {
			key := Normalize(pron)
			if key == "" {
				continue
			}
			if _, ok := ri.words[key]; ok {
				continue
			}
			ri.keys = append(ri.keys, key)
			ri.words[key] = word
		}
	}
	return ri
}

func (ri *ReverseIndex) Lookup(pron string) (string, bool) {
	word, ok := ri.words[pron]
	return word, ok
}

func (ri *ReverseIndex) Len() int {
	return len(ri.keys)
}

// Keys returns the normalized pronunciations in insertion order.
func (ri *ReverseIndex) Keys() []string {
	res := make([]string, len(ri.keys))
	copy(res, ri.keys)
	return res
}
