package trainer

import (
	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/vocab"
)

// Pair is an ordered pair of adjacent symbols. Comparable, so it can key maps
// directly.
type Pair struct {
	Left  vocab.ID
	Right vocab.ID
}

// PairIndex maps each pair to the set of word indices whose current tokens
// contain it adjacently at least once. Presence per word, not counts: a word
// can hold the same pair several times, and the per-word count is recomputed
// at selection time by scanning that word's tokens.
//
// Invariant: a pair key exists in the index iff some word currently contains
// it. The incremental update in ApplyMerge preserves this exactly.
type PairIndex struct {
	words map[Pair]map[int]struct{}
}

// BuildPairIndex registers every word of c under each of its distinct
// adjacent pairs.
func BuildPairIndex(c *corpus.Corpus) *PairIndex {
	idx := &PairIndex{words: make(map[Pair]map[int]struct{})}
	for i := range c.Words {
		for p := range pairSet(c.Words[i].Tokens) {
			idx.add(p, i)
		}
	}
	return idx
}

func (idx *PairIndex) add(p Pair, word int) {
	set, ok := idx.words[p]
	if !ok {
		set = make(map[int]struct{})
		idx.words[p] = set
	}
	set[word] = struct{}{}
}

func (idx *PairIndex) remove(p Pair, word int) {
	set, ok := idx.words[p]
	if !ok {
		return
	}
	delete(set, word)
	if len(set) == 0 {
		delete(idx.words, p)
	}
}

// ApplyMerge rewrites every word currently registered under p, replacing each
// occurrence of p with merged, and diffs each word's pair set before/after to
// keep the index consistent. Cost is proportional to the affected words only,
// never the whole corpus.
func (idx *PairIndex) ApplyMerge(c *corpus.Corpus, p Pair, merged vocab.ID) {
	// snapshot: the registration set shrinks while we mutate
	affected := make([]int, 0, len(idx.words[p]))
	for w := range idx.words[p] {
		affected = append(affected, w)
	}

	for _, w := range affected {
		word := &c.Words[w]
		before := pairSet(word.Tokens)
		word.Tokens = mergeInWord(word.Tokens, p, merged)
		after := pairSet(word.Tokens)

		for old := range before {
			if _, still := after[old]; !still {
				idx.remove(old, w)
			}
		}
		for fresh := range after {
			if _, had := before[fresh]; !had {
				idx.add(fresh, w)
			}
		}
	}

	// every occurrence of p is gone now
	delete(idx.words, p)
}

// pairSet returns the distinct adjacent pairs in tokens.
func pairSet(tokens []vocab.ID) map[Pair]struct{} {
	pairs := make(map[Pair]struct{}, len(tokens))
	for i := 0; i+1 < len(tokens); i++ {
		pairs[Pair{tokens[i], tokens[i+1]}] = struct{}{}
	}
	return pairs
}

// countPairInWord counts the occurrences of p that a merge pass would
// actually replace: greedy left to right, a match consuming both tokens.
// For p.Left != p.Right this equals the plain adjacent count; for equal
// symbols it does not double-count overlaps ("aaaa" holds (a,a) twice, not
// three times).
func countPairInWord(tokens []vocab.ID, p Pair) int {
	n := 0
	for i := 0; i+1 < len(tokens); {
		if tokens[i] == p.Left && tokens[i+1] == p.Right {
			n++
			i += 2
		} else {
			i++
		}
	}
	return n
}

// mergeInWord replaces every non-overlapping occurrence of p with merged,
// scanning left to right.
func mergeInWord(tokens []vocab.ID, p Pair, merged vocab.ID) []vocab.ID {
	out := make([]vocab.ID, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if i+1 < len(tokens) && tokens[i] == p.Left && tokens[i+1] == p.Right {
			out = append(out, merged)
			i += 2
		} else {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}
