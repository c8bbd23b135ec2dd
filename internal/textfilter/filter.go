// Package textfilter cleans raw text down to script-pure word lines, the
// first preprocessing step before counting and training.
package textfilter

import (
	"fmt"
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// Script selects which alphabet a word must be written in to survive.
type Script int

const (
	Latin Script = iota
	Cyrillic
)

func ParseScript(s string) (Script, error) {
	switch strings.ToLower(s) {
	case "latin":
		return Latin, nil
	case "cyrillic":
		return Cyrillic, nil
	}
	return 0, fmt.Errorf("unknown script %q (want latin or cyrillic)", s)
}

func (s Script) String() string {
	if s == Cyrillic {
		return "cyrillic"
	}
	return "latin"
}

func (s Script) contains(r rune) bool {
	if s == Cyrillic {
		return unicode.Is(unicode.Cyrillic, r)
	}
	return unicode.Is(unicode.Latin, r)
}

// DefaultMinWords drops lines that keep fewer words than this; short
// leftovers are mostly boilerplate and navigation chrome.
const DefaultMinWords = 10

type Options struct {
	Script   Script
	MinWords int // 0 means DefaultMinWords
	Workers  int // 0 means GOMAXPROCS
}

// CleanLine normalizes one line to NFC, splits it into words (runs of
// letters, digits and underscores), and keeps only words written entirely in
// the chosen script. ok is false when fewer than minWords words survive.
func CleanLine(line string, script Script, minWords int) (string, bool) {
	line = norm.NFC.String(line)

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			if w := current.String(); isScriptWord(w, script) {
				words = append(words, w)
			}
			current.Reset()
		}
	}
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	if len(words) < minWords {
		return "", false
	}
	return strings.Join(words, " "), true
}

// isScriptWord reports whether every rune of w is a letter of the script.
// Words with digits or underscores are extracted but never pass this, same
// as the line splitter feeding them in.
func isScriptWord(w string, script Script) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !script.contains(r) {
			return false
		}
	}
	return true
}

// Clean filters lines in parallel. Input lines are independent, so they are
// partitioned into contiguous chunks, one worker per chunk, each writing its
// own output slice; the chunks are concatenated afterwards, which keeps the
// surviving lines in input order.
func Clean(lines []string, opts Options) ([]string, error) {
	if opts.MinWords == 0 {
		opts.MinWords = DefaultMinWords
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	chunkSize := (len(lines) + opts.Workers - 1) / opts.Workers
	if chunkSize == 0 {
		return nil, nil
	}

	chunks := make([][]string, opts.Workers)
	var g errgroup.Group
	for t := 0; t < opts.Workers; t++ {
		start := t * chunkSize
		if start >= len(lines) {
			break
		}
		end := min(len(lines), start+chunkSize)
		t := t
		g.Go(func() error {
			var local []string
			for _, line := range lines[start:end] {
				if cleaned, ok := CleanLine(line, opts.Script, opts.MinWords); ok {
					local = append(local, cleaned)
				}
			}
			chunks[t] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out, nil
}
