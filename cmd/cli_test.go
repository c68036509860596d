package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/phonomidi/mapping"
	"github.com/jsphweid/phonomidi/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAllKeepsInputOrder(t *testing.T) {
	c := testCodec(t)
	dir := t.TempDir()

	texts := []string{"cat", "hello world", "world cat", "hello"}
	var paths []string
	for i, text := range texts {
		path := filepath.Join(dir, "sub", string(rune('a'+i))+".mid")
		_, err := c.EncodeFile(text, path)
		require.NoError(t, err)
		paths = append(paths, path)
	}

	var out bytes.Buffer
	require.NoError(t, decodeAll(context.Background(), &out, c, paths))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(texts))
	for i, line := range lines {
		assert.Equal(t, paths[i]+": "+texts[i], line)
	}
}

func TestDecodeAllFailsOnBadFile(t *testing.T) {
	c := testCodec(t)
	bad := filepath.Join(t.TempDir(), "bad.mid")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))

	var out bytes.Buffer
	err := decodeAll(context.Background(), &out, c, []string{bad})
	assert.ErrorContains(t, err, "bad.mid")
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mid", "b.midi", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	single := filepath.Join(dir, "notes.txt")

	paths, err := expandPaths([]string{dir, single}, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.Equal(t, single, paths[2])

	_, err = expandPaths([]string{filepath.Join(dir, "missing")}, 0)
	assert.Error(t, err)
}

func TestInspectListsTracks(t *testing.T) {
	c := testCodec(t)
	var buf bytes.Buffer
	_, err := c.EncodeTo("cat", &buf)
	require.NoError(t, err)

	tracks, ticksPerBeat, err := midi.ReadTracks(&buf)
	require.NoError(t, err)

	var out bytes.Buffer
	inspect(&out, tracks, ticksPerBeat, mapping.Default())
	text := out.String()
	assert.Contains(t, text, "ticks per beat: 480")
	assert.Contains(t, text, `"Melody": track_name=1 note_on=11 note_off=11`)
	assert.Contains(t, text, `"Pad"`)
	// k æ t plus both arpeggios
	assert.Contains(t, text, "selected track notes: 11")
	assert.Contains(t, text, `symbol="æ"`)
	// k starts the harmony on E major
	assert.Contains(t, text, "chords: 52-56-59")
}
