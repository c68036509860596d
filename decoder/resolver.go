package decoder

import (
	"log/slog"
	"strings"

	"github.com/antzucaro/matchr"
)

// ReverseLookup finds the word for a normalized pronunciation.
type ReverseLookup interface {
	Lookup(pron string) (string, bool)
	Keys() []string
}

type Option func(*Resolver)

// WithFuzzy enables a Jaro-Winkler fallback for pronunciations missing from
// the index. The closest key scoring at least threshold is used.
func WithFuzzy(threshold float64) Option {
	return func(r *Resolver) {
		r.fuzzy = true
		r.threshold = threshold
	}
}

// Resolver is read-only after construction.
type Resolver struct {
	index     ReverseLookup
	keys      []string
	fuzzy     bool
	threshold float64
}

func NewResolver(index ReverseLookup, opts ...Option) *Resolver {
	r := &Resolver{index: index}
	for _, o := range opts {
		o(r)
	}
	if r.fuzzy {
		r.keys = index.Keys()
	}
	return r
}

// Resolve returns the word for pron, or pron itself when nothing matches.
func (r *Resolver) Resolve(pron string) string {
	if word, ok := r.index.Lookup(pron); ok {
		return word
	}
	if r.fuzzy {
		if word, ok := r.closest(pron); ok {
			return word
		}
	}
	slog.Debug("pronunciation not in reverse index", "pron", pron)
	return pron
}

func (r *Resolver) closest(pron string) (string, bool) {
	bestKey := ""
	var bestScore float64
	for _, key := range r.keys {
		score := matchr.JaroWinkler(pron, key, false)
		if score >= r.threshold && score > bestScore {
			bestKey = key
			bestScore = score
		}
	}
	if bestKey == "" {
		return "", false
	}
	return r.index.Lookup(bestKey)
}

// Text resolves every word and joins them with single spaces.
func (r *Resolver) Text(prons []string) string {
	words := make([]string, 0, len(prons))
	for _, p := range prons {
		if p == "" {
			continue
		}
		words = append(words, r.Resolve(p))
	}
	return strings.Join(words, " ")
}
