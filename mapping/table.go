// Package mapping holds the fixed bijection between phoneme symbols and
// (pitch, duration, velocity) triples.
package mapping

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jsphweid/phonomidi/constants"
	"github.com/jsphweid/phonomidi/model"
	"github.com/jsphweid/phonomidi/util"
)

// Table is immutable after construction and safe for concurrent reads.
type Table struct {
	entries  []model.MappingEntry
	bySymbol map[string]int
	sentinel model.NoteEvent
}

var defaultTable = mustNew(defaultEntries)

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

func mustNew(entries []model.MappingEntry) *Table {
	t, err := New(entries)
	if err != nil {
		panic("invalid mapping table: " + err.Error())
	}
	return t
}

// New validates entries and builds a table. Entry order is kept: it is the
// tie-break order for Nearest.
func New(entries []model.MappingEntry) (*Table, error) {
	t := &Table{
		entries:  make([]model.MappingEntry, len(entries)),
		bySymbol: make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)

	triples := make(map[model.NoteEvent]string, len(entries))
	for i, e := range t.entries {
		n := utf8.RuneCountInString(e.Symbol)
		if n < 1 || n > 2 {
			return nil, fmt.Errorf("symbol %q must be 1 or 2 characters", e.Symbol)
		}
		if e.Note.Pitch > 127 || e.Note.Velocity > 127 {
			return nil, fmt.Errorf("symbol %q has out of range pitch/velocity", e.Symbol)
		}
		if e.Note.Duration <= 0 {
			return nil, fmt.Errorf("symbol %q has non-positive duration", e.Symbol)
		}
		if _, ok := t.bySymbol[e.Symbol]; ok {
			return nil, fmt.Errorf("duplicate symbol %q", e.Symbol)
		}
		if other, ok := triples[e.Note]; ok {
			return nil, fmt.Errorf("symbols %q and %q share a note", other, e.Symbol)
		}
		t.bySymbol[e.Symbol] = i
		triples[e.Note] = e.Symbol
	}

	i, ok := t.bySymbol[model.WordBoundary]
	if !ok {
		return nil, errors.New("missing word boundary entry")
	}
	t.sentinel = t.entries[i].Note
	if t.sentinel.Velocity > constants.SentinelMaxVelocity {
		return nil, fmt.Errorf("word boundary velocity %d is above %d", t.sentinel.Velocity, constants.SentinelMaxVelocity)
	}
	return t, nil
}

func (t *Table) Lookup(symbol string) (model.NoteEvent, bool) {
	i, ok := t.bySymbol[symbol]
	if !ok {
		return model.NoteEvent{}, false
	}
	return t.entries[i].Note, true
}

func (t *Table) Contains(symbol string) bool {
	_, ok := t.bySymbol[symbol]
	return ok
}

// Sentinel is the triple of the word boundary symbol.
func (t *Table) Sentinel() model.NoteEvent {
	return t.sentinel
}

// IsBoundary reports whether n is a word boundary regardless of duration.
func (t *Table) IsBoundary(n model.NoteEvent) bool {
	return n.Pitch == t.sentinel.Pitch && n.Velocity <= constants.SentinelMaxVelocity
}

func (t *Table) Entries() []model.MappingEntry {
	res := make([]model.MappingEntry, len(t.entries))
	copy(res, t.entries)
	return res
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Distance is the weighted distance between an observed note and a table
// triple:
//
//	10*|dPitch| + 0.5*|dVelocity| + min over m in {1, 1.2, 0.9} of |dur - ref*m|
//
// The duration candidates are the rhythmic variation multipliers the composer
// applies, so a stretched or compressed note costs nothing on duration.
func Distance(n, ref model.NoteEvent) float64 {
	pitch := util.Abs(int(n.Pitch) - int(ref.Pitch))
	velocity := util.Abs(int(n.Velocity) - int(ref.Velocity))
	duration := util.Min(
		util.Abs(n.Duration-ref.Duration),
		util.Abs(n.Duration-ref.Duration*constants.StretchFactor),
		util.Abs(n.Duration-ref.Duration*constants.CompressFactor),
	)
	return float64(pitch)*10 + float64(velocity)*0.5 + duration
}

// Nearest scans every entry and returns the symbol at minimum Distance. On a
// tie the entry that comes first in table order wins.
func (t *Table) Nearest(n model.NoteEvent) (string, float64) {
	best := -1
	var bestDistance float64
	for i, e := range t.entries {
		d := Distance(n, e.Note)
		if best < 0 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	if best < 0 {
		return "", 0
	}
	return t.entries[best].Symbol, bestDistance
}
