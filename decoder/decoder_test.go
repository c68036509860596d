package decoder

import (
	"strings"
	"testing"

	"github.com/jsphweid/phonomidi/compose"
	"github.com/jsphweid/phonomidi/dictionary"
	"github.com/jsphweid/phonomidi/encoder"
	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const words = `cat /ˈkæt/
sat /ˈsæt/
hi /hi/
`

func loadDict(t *testing.T) *dictionary.Dictionary {
	d, err := dictionary.Load(strings.NewReader(words))
	require.NoError(t, err)
	return d
}

func TestEveryEntryDecodesToItself(t *testing.T) {
	table := mapping.Default()
	for _, e := range table.Entries() {
		notes := encoder.IPAToNotes(e.Symbol, table)
		if e.Symbol == model.WordBoundary {
			// a lone boundary splits nothing
			notes = model.Notes{table.Sentinel()}
		}
		require.Len(t, notes, 1, e.Symbol)
		assert.Equal(t, []model.PhonemeToken{e.Symbol}, NotesToPhonemes(notes, table))
	}
}

func TestSentinelIsBoundaryAtAnyDuration(t *testing.T) {
	table := mapping.Default()
	for _, d := range []float64{0.01, 0.25, 1, 8} {
		for _, v := range []uint8{0, 1, 2} {
			tokens := NotesToPhonemes(model.Notes{{Pitch: 24, Duration: d, Velocity: v}}, table)
			assert.Equal(t, []model.PhonemeToken{model.WordBoundary}, tokens)
		}
	}
}

func TestTrim(t *testing.T) {
	notes := make(model.Notes, 10)
	for i := range notes {
		notes[i].Pitch = uint8(i)
	}
	trimmed := Trim(notes)
	require.Len(t, trimmed, 2)
	assert.Equal(t, uint8(4), trimmed[0].Pitch)
	assert.Equal(t, uint8(5), trimmed[1].Pitch)

	assert.Nil(t, Trim(notes[:8]))
	assert.Nil(t, Trim(notes[:3]))
}

func TestSplitWordsSkipsEmpty(t *testing.T) {
	assert.Equal(t, []string{"kæt", "sæt"}, SplitWords("kæt  sæt "))
	assert.Nil(t, SplitWords(""))
}

func TestResolverFallsBackToPhonemes(t *testing.T) {
	r := NewResolver(dictionary.BuildReverseIndex(loadDict(t)))
	assert.Equal(t, "cat kæd hi", r.Text([]string{"kæt", "kæd", "", "hi"}))
}

func TestResolverFuzzy(t *testing.T) {
	r := NewResolver(dictionary.BuildReverseIndex(loadDict(t)), WithFuzzy(0.75))
	assert.Equal(t, "cat", r.Resolve("kæd"))
	assert.Equal(t, "zzzz", r.Resolve("zzzz"))
}

func roundTrip(t *testing.T, text string) (string, model.Notes) {
	table := mapping.Default()
	d := loadDict(t)

	_, notes := encoder.TextToMusicNotes(text, d, table)
	melody := compose.ComposeTracks(notes).Melody.Events()

	r := NewResolver(dictionary.BuildReverseIndex(d))
	return MusicToText(melody, table, r), melody
}

func TestRoundTripCatSat(t *testing.T) {
	text, _ := roundTrip(t, "cat sat")
	assert.Equal(t, "cat sat", text)
	assert.Len(t, strings.Fields(text), 2)
}

func TestRoundTripHi(t *testing.T) {
	text, melody := roundTrip(t, "hi")
	assert.Equal(t, "hi", text)
	// h i plus four intro and four outro notes
	assert.Len(t, melody, 10)
	assert.Equal(t, "hi", NotesToIPA(melody, mapping.Default()))
}

func TestRoundTripUnknownWordIsSpelled(t *testing.T) {
	text, _ := roundTrip(t, "cat bed")
	assert.Equal(t, "cat bed", text)
}
