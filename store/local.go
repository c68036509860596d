// Package store keeps encoded files on disk, mirrors them to S3 when a
// bucket is configured and sweeps old outputs.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	folderPrefix = "encoded_music_"
	FileName     = "encoded_music.mid"
)

var ErrOutsideOutputs = errors.New("path is outside the outputs dir")

type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: filepath.Clean(dir)}
}

func (l *Local) Dir() string {
	return l.dir
}

// NewOutputPath returns a fresh encoded_music_<timestamp>_<uuid>/encoded_music.mid
// path under the outputs dir. Nothing is created.
func (l *Local) NewOutputPath(now time.Time) string {
	folder := folderPrefix + now.Format("20060102_150405") + "_" + uuid.New().String()
	return filepath.Join(l.dir, folder, FileName)
}

// Resolve checks that path points inside the outputs dir and returns it
// cleaned.
func (l *Local) Resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	rel, err := filepath.Rel(l.dir, cleaned)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideOutputs, path)
	}
	return cleaned, nil
}

// Sweep removes output folders last modified before now - maxAge and
// returns how many were removed. A missing outputs dir is not an error.
func (l *Local) Sweep(now time.Time, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(l.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading outputs dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("failed to delete output folder", "path", path, "err", err)
			continue
		}
		cleaned++
	}
	if cleaned > 0 {
		slog.Info("cleaned up old output folders", "count", cleaned)
	}
	return cleaned, nil
}
