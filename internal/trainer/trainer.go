// Package trainer implements the incremental BPE merge loop.
//
// Each iteration picks the pair of adjacent symbols with the highest weighted
// frequency across the corpus, merges it into a new symbol in exactly the
// words that contain it, and records a merge rule. The loop never rescans the
// whole corpus: the pair index tells it which words a merge touches.
package trainer

import (
	"go.uber.org/zap"

	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/suffixauto"
	"github.com/bpetrain/internal/vocab"
)

// Separator joins original words in the frequency oracle's corpus string.
// A word can never contain it: the loader splits on lines and whitespace.
const Separator = '\n'

// DefaultMinPairFrequency is the floor below which no pair is worth a merge.
const DefaultMinPairFrequency = 2

type Config struct {
	// MinPairFrequency stops the loop once no pair's weighted frequency
	// reaches it. Values < 1 mean the default (2).
	MinPairFrequency int64
	// MaxMerges caps the number of iterations as an operational safeguard.
	// 0 means unlimited; the loop terminates on its own regardless.
	MaxMerges int
}

// MergeRule records one merge decision, in application order.
// Frequency is the oracle's exact count of the merged string in the original
// corpus, not the weighted pair frequency that selected the merge. The two
// numbers answer different questions and both are exposed.
type MergeRule struct {
	Pair      Pair
	Result    vocab.ID
	Frequency int64
}

// TokenFrequency is one row of the final vocabulary report.
type TokenFrequency struct {
	ID        vocab.ID
	Token     string
	Frequency int64
}

// Result is everything a training run produces.
type Result struct {
	Rules []MergeRule
	// Vocabulary lists, in symbol creation order, every symbol whose
	// string actually occurs in the original corpus. Intermediate merge
	// artifacts can end up with zero occurrences once word boundaries are
	// considered; those are filtered out.
	Vocabulary []TokenFrequency
}

// Trainer owns the mutable training state. Single-threaded: the merge loop is
// inherently sequential, each merge changes the candidate set for the next.
type Trainer struct {
	cfg    Config
	corpus *corpus.Corpus
	table  *vocab.Table
	index  *PairIndex
	oracle *suffixauto.Automaton
	log    *zap.Logger
}

// New builds the pair index and the frequency oracle over c. The corpus and
// table are mutated by Train; the oracle is immutable from here on.
func New(c *corpus.Corpus, table *vocab.Table, cfg Config, log *zap.Logger) *Trainer {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MinPairFrequency < 1 {
		cfg.MinPairFrequency = DefaultMinPairFrequency
	}

	originals := make([]string, len(c.Words))
	for i := range c.Words {
		originals[i] = c.Words[i].Original
	}

	return &Trainer{
		cfg:    cfg,
		corpus: c,
		table:  table,
		index:  BuildPairIndex(c),
		oracle: suffixauto.NewFromWords(originals, Separator),
		log:    log,
	}
}

// Train runs the merge loop to termination and reports the results.
func (t *Trainer) Train() *Result {
	res := &Result{}

	for {
		if t.cfg.MaxMerges > 0 && len(res.Rules) >= t.cfg.MaxMerges {
			t.log.Info("merge cap reached", zap.Int("merges", len(res.Rules)))
			break
		}

		best, bestFreq, ok := t.selectBest()
		if !ok || bestFreq < t.cfg.MinPairFrequency {
			break
		}

		mergedStr := t.table.StringOf(best.Left) + t.table.StringOf(best.Right)
		merged := t.table.Intern(mergedStr)
		orig := t.oracle.Count(mergedStr)

		res.Rules = append(res.Rules, MergeRule{
			Pair:      best,
			Result:    merged,
			Frequency: orig,
		})
		t.log.Info("merge",
			zap.Int("iteration", len(res.Rules)),
			zap.String("left", t.table.StringOf(best.Left)),
			zap.String("right", t.table.StringOf(best.Right)),
			zap.String("merged", mergedStr),
			zap.Int64("weighted_frequency", bestFreq),
			zap.Int64("corpus_frequency", orig))

		t.index.ApplyMerge(t.corpus, best, merged)
	}

	res.Vocabulary = t.vocabulary()
	t.log.Info("training finished",
		zap.Int("merges", len(res.Rules)),
		zap.Int("vocabulary", len(res.Vocabulary)))
	return res
}

// selectBest scans every live pair and returns the one with the highest
// weighted frequency. Ties are broken by lexicographic order on the pair's
// interned strings (left first, then right), so runs are deterministic even
// though map iteration is not.
func (t *Trainer) selectBest() (Pair, int64, bool) {
	var (
		best     Pair
		bestFreq int64
		found    bool
	)
	for p := range t.index.words {
		freq := t.weightedFrequency(p)
		if !found || freq > bestFreq || (freq == bestFreq && t.pairLess(p, best)) {
			best, bestFreq, found = p, freq, true
		}
	}
	return best, bestFreq, found
}

// weightedFrequency sums, over the words registered under p, the pair's
// occurrence count in the word times the word's weight.
func (t *Trainer) weightedFrequency(p Pair) int64 {
	var freq int64
	for w := range t.index.words[p] {
		word := &t.corpus.Words[w]
		freq += int64(countPairInWord(word.Tokens, p)) * int64(word.Weight)
	}
	return freq
}

func (t *Trainer) pairLess(a, b Pair) bool {
	al, bl := t.table.StringOf(a.Left), t.table.StringOf(b.Left)
	if al != bl {
		return al < bl
	}
	return t.table.StringOf(a.Right) < t.table.StringOf(b.Right)
}

// vocabulary reports, for every symbol ever interned, its exact occurrence
// count in the original corpus, dropping symbols that never occur verbatim.
// The oracle is read-only, so this pass could run queries in parallel, but
// the symbol count is small next to the corpus and a plain loop keeps the
// output ordering trivially stable.
func (t *Trainer) vocabulary() []TokenFrequency {
	out := make([]TokenFrequency, 0, t.table.Len())
	for id := vocab.ID(0); int(id) < t.table.Len(); id++ {
		s := t.table.StringOf(id)
		if n := t.oracle.Count(s); n > 0 {
			out = append(out, TokenFrequency{ID: id, Token: s, Frequency: n})
		}
	}
	return out
}
