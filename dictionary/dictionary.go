// Package dictionary loads the pronunciation dictionary and builds its
// reverse index. Both are read-only after construction.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ErrResourceLoad marks a dictionary that could not be read. Nothing can be
// encoded or decoded without it.
var ErrResourceLoad = errors.New("pronunciation dictionary could not be loaded")

const maxLineSize = 1024 * 1024

type Dictionary struct {
	// file order, used to build the reverse index deterministically
	words []string
	prons map[string][]string
}

func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Load parses lines of the form "WORD pron1,pron2,...". Lines without both
// fields are skipped. Pronunciations have surrounding slashes removed and
// keep their stress marks.
func Load(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{prons: make(map[string][]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		word, prons, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, seen := d.prons[word]; !seen {
			d.words = append(d.words, word)
		}
		d.prons[word] = append(d.prons[word], prons...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}
	return d, nil
}

func parseLine(line string) (string, []string, bool) {
	line = strings.TrimSpace(line)
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx <= 0 {
		return "", nil, false
	}
	word := strings.ToLower(line[:idx])
	rest := strings.TrimSpace(line[idx:])
	if rest == "" {
		return "", nil, false
	}

	var prons []string
	for _, p := range strings.Split(rest, ",") {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			prons = append(prons, p)
		}
	}
	if len(prons) == 0 {
		return "", nil, false
	}
	return word, prons, true
}

// First returns the preferred pronunciation of word.
func (d *Dictionary) First(word string) (string, bool) {
	prons := d.prons[word]
	if len(prons) == 0 {
		return "", false
	}
	return prons[0], true
}

func (d *Dictionary) Lookup(word string) []string {
	prons := d.prons[word]
	res := make([]string, len(prons))
	copy(res, prons)
	return res
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns every word in the order it first appeared.
func (d *Dictionary) Words() []string {
	res := make([]string, len(d.words))
	copy(res, d.words)
	return res
}
