package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutputPath(t *testing.T) {
	l := NewLocal("outputs")
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	p := l.NewOutputPath(now)
	pattern := regexp.MustCompile(`^outputs/encoded_music_20240309_140507_[0-9a-f-]{36}/encoded_music\.mid$`)
	assert.Regexp(t, pattern, filepath.ToSlash(p))
	assert.NotEqual(t, p, l.NewOutputPath(now))
}

func TestResolve(t *testing.T) {
	l := NewLocal("outputs")
	cases := []struct {
		path string
		ok   bool
	}{
		{"outputs/encoded_music_x/encoded_music.mid", true},
		{"outputs/a/../b/encoded_music.mid", true},
		{"outputs", false},
		{"outputs/../secret.txt", false},
		{"/etc/passwd", false},
		{"data/en_US.txt", false},
	}
	for _, c := range cases {
		_, err := l.Resolve(c.path)
		if c.ok {
			assert.NoError(t, err, c.path)
		} else {
			assert.ErrorIs(t, err, ErrOutsideOutputs, c.path)
		}
	}
}

func makeFolder(t *testing.T, dir, name string, mtime time.Time) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, FileName), []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestSweepRemovesOnlyOldFolders(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := makeFolder(t, dir, "encoded_music_old", now.Add(-8*24*time.Hour))
	fresh := makeFolder(t, dir, "encoded_music_fresh", now.Add(-time.Hour))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loose.txt"), nil, 0o644))

	n, err := NewLocal(dir).Sweep(now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoDirExists(t, old)
	assert.DirExists(t, fresh)
	assert.FileExists(t, filepath.Join(dir, "loose.txt"))
}

func TestSweepMissingDir(t *testing.T) {
	n, err := NewLocal(filepath.Join(t.TempDir(), "missing")).Sweep(time.Now(), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestJanitorRunSweepsAtStartup(t *testing.T) {
	dir := t.TempDir()
	old := makeFolder(t, dir, "encoded_music_old", time.Now().Add(-48*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewJanitor(NewLocal(dir), 24*time.Hour, time.Hour, time.Millisecond).Run(ctx)
	assert.NoDirExists(t, old)
}

func TestJanitorPokeIsDebounced(t *testing.T) {
	dir := t.TempDir()
	j := NewJanitor(NewLocal(dir), 24*time.Hour, 0, 20*time.Millisecond)
	old := makeFolder(t, dir, "encoded_music_old", time.Now().Add(-48*time.Hour))

	for i := 0; i < 5; i++ {
		j.Poke()
	}
	assert.DirExists(t, old)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(old)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}
