// Package codec bundles the mapping table, dictionary and reverse index into
// one read-only value shared by the CLI and the HTTP server.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsphweid/phonomidi/compose"
	"github.com/jsphweid/phonomidi/decoder"
	"github.com/jsphweid/phonomidi/dictionary"
	"github.com/jsphweid/phonomidi/encoder"
	"github.com/jsphweid/phonomidi/extract"
	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/midi"
	"github.com/jsphweid/phonomidi/model"
	"github.com/jsphweid/phonomidi/phoneme"
)

// Codec is safe for concurrent use. Nothing is mutated after New.
type Codec struct {
	table    *mapping.Table
	dict     *dictionary.Dictionary
	reverse  *dictionary.ReverseIndex
	resolver *decoder.Resolver
}

// Encoding is everything produced for one input text.
type Encoding struct {
	IPA      string
	Phonemes []model.PhonemeToken
	Notes    model.Notes
	Score    model.Score
}

func New(table *mapping.Table, dict *dictionary.Dictionary, opts ...decoder.Option) *Codec {
	reverse := dictionary.BuildReverseIndex(dict)
	return &Codec{
		table:    table,
		dict:     dict,
		reverse:  reverse,
		resolver: decoder.NewResolver(reverse, opts...),
	}
}

// Load reads the dictionary at path and builds a codec over the default
// table.
func Load(path string, opts ...decoder.Option) (*Codec, error) {
	dict, err := dictionary.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c := New(mapping.Default(), dict, opts...)
	slog.Info("loaded dictionary", "path", path, "words", dict.Len(), "pronunciations", c.reverse.Len())
	return c, nil
}

func (c *Codec) Table() *mapping.Table {
	return c.table
}

func (c *Codec) Dictionary() *dictionary.Dictionary {
	return c.dict
}

func (c *Codec) Reverse() *dictionary.ReverseIndex {
	return c.reverse
}

func (c *Codec) Encode(text string) Encoding {
	ipa, notes := encoder.TextToMusicNotes(text, c.dict, c.table)
	return Encoding{
		IPA:      ipa,
		Phonemes: phoneme.IPAToPhonemes(ipa, c.table),
		Notes:    notes,
		Score:    compose.ComposeTracks(notes),
	}
}

func (c *Codec) EncodeTo(text string, w io.Writer) (Encoding, error) {
	enc := c.Encode(text)
	if err := midi.WriteScore(enc.Score, w); err != nil {
		return enc, err
	}
	return enc, nil
}

// EncodeFile writes the score for text to path, creating parent directories.
func (c *Codec) EncodeFile(text, path string) (Encoding, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Encoding{}, fmt.Errorf("error creating output dir: %w", err)
	}

	var buf bytes.Buffer
	enc, err := c.EncodeTo(text, &buf)
	if err != nil {
		return enc, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return enc, fmt.Errorf("error writing %s: %w", path, err)
	}
	return enc, nil
}

// Decode turns a melody, arpeggios included, back into text.
func (c *Codec) Decode(notes model.Notes) string {
	return decoder.MusicToText(notes, c.table, c.resolver)
}

func (c *Codec) DecodeTracks(tracks model.Tracks, ticksPerBeat int) string {
	return c.Decode(extract.ExtractFromTracks(tracks, ticksPerBeat))
}

func (c *Codec) DecodeReader(r io.Reader) (string, error) {
	tracks, ticksPerBeat, err := midi.ReadTracks(r)
	if err != nil {
		return "", err
	}
	return c.DecodeTracks(tracks, ticksPerBeat), nil
}

func (c *Codec) DecodeFile(path string) (string, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return "", err
	}
	tracks, ticksPerBeat, err := midi.ToTracks(s)
	if err != nil {
		return "", err
	}
	return c.DecodeTracks(tracks, ticksPerBeat), nil
}
