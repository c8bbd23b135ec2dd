// Package corpus loads the weighted word list the trainer runs on.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bpetrain/internal/vocab"
)

// scanner buffer large enough for very long lines in aggregated corpora
const scannerBufSize = 4 * 1024 * 1024

// WeightMode selects how a record's weight is derived from its fields.
// Both layouts appear in practice: tf/df files produced by the counting tool,
// and plain word lists with no counts at all.
type WeightMode int

const (
	// WeightUniform gives every word weight 1; extra columns are ignored.
	WeightUniform WeightMode = iota
	// WeightTF uses the second column (term frequency) as the weight,
	// defaulting to 1 when the column is absent.
	WeightTF
)

// WordEntry is one accepted input record.
// Original never changes after load; Tokens is the word's current
// segmentation and is replaced wholesale whenever a merge touches it.
type WordEntry struct {
	Original string
	Weight   int
	Tokens   []vocab.ID
}

// Corpus is the ordered list of word entries. Lines are never deduplicated:
// the same string appearing twice (even with different weights) is two
// independent entries.
type Corpus struct {
	Words []WordEntry
}

// Load reads whitespace-separated records `word [tf [df]]` from r, interning
// each word's codepoints into table as its initial segmentation.
//
// Blank lines and malformed records are skipped with a diagnostic, never
// fatal: a bad weight field or an invalid UTF-8 byte sequence drops that one
// line and the load continues. Only a read error on r itself is returned.
func Load(r io.Reader, mode WeightMode, table *vocab.Table, log *zap.Logger) (*Corpus, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Corpus{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), scannerBufSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		word := fields[0]
		if !utf8.ValidString(word) {
			log.Warn("skipping word with invalid utf-8", zap.Int("line", lineNo))
			continue
		}

		weight := 1
		if mode == WeightTF && len(fields) > 1 {
			w, err := strconv.Atoi(fields[1])
			if err != nil || w < 1 {
				log.Warn("skipping record with bad weight",
					zap.Int("line", lineNo), zap.String("weight", fields[1]))
				continue
			}
			weight = w
		}

		entry := WordEntry{
			Original: word,
			Weight:   weight,
			Tokens:   make([]vocab.ID, 0, utf8.RuneCountInString(word)),
		}
		for _, ch := range word {
			entry.Tokens = append(entry.Tokens, table.Intern(string(ch)))
		}
		c.Words = append(c.Words, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	log.Info("corpus loaded",
		zap.Int("words", len(c.Words)),
		zap.Int("initial_symbols", table.Len()))
	return c, nil
}
