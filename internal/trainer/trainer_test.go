package trainer

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/vocab"
)

func mergedStrings(res *Result, tbl *vocab.Table) []string {
	out := make([]string, len(res.Rules))
	for i, r := range res.Rules {
		out[i] = tbl.StringOf(r.Result)
	}
	return out
}

// Hand-computed golden run for the classic toy set, tf-weighted.
//
// Initial weighted pair frequencies: (e,s) and (s,t) both 9 (newest 6 +
// widest 3), (w,e) 8, (l,o) and (o,w) 7, the rest lower. Lexicographic
// tie-break picks (e,s) over (s,t) and later (l,o) over (o,w).
func TestGoldenToyCorpus(t *testing.T) {
	input := "low 5\nlower 2\nnewest 6\nwidest 3\n"
	c, tbl := loadTestCorpus(t, input, corpus.WeightTF)

	res := New(c, tbl, Config{}, nil).Train()

	want := []string{
		"es", "est", "lo", "low",
		"ew", "ewest", "newest",
		"dest", "idest", "widest",
		"er", "lower",
	}
	require.Equal(t, want, mergedStrings(res, tbl))

	// reported frequencies are exact corpus occurrence counts of the
	// merged strings, independent of the weights that drove selection
	wantFreq := []int64{2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1}
	for i, r := range res.Rules {
		require.Equal(t, wantFreq[i], r.Frequency,
			"rule %d (%s)", i, tbl.StringOf(r.Result))
	}
}

func TestGoldenToyCorpusVocabulary(t *testing.T) {
	input := "low 5\nlower 2\nnewest 6\nwidest 3\n"
	c, tbl := loadTestCorpus(t, input, corpus.WeightTF)

	res := New(c, tbl, Config{}, nil).Train()

	// every symbol ever created occurs in this corpus, so nothing is
	// filtered: 10 initial characters + 12 merge results
	require.Len(t, res.Vocabulary, 22)

	byToken := make(map[string]int64)
	for _, tf := range res.Vocabulary {
		byToken[tf.Token] = tf.Frequency
	}
	require.Equal(t, int64(4), byToken["e"]) // lower, newest twice, widest
	require.Equal(t, int64(4), byToken["w"])
	require.Equal(t, int64(2), byToken["es"])
	require.Equal(t, int64(1), byToken["newest"])

	// creation order: characters first, then merge results in merge order
	require.Equal(t, "l", res.Vocabulary[0].Token)
	require.Equal(t, "lower", res.Vocabulary[21].Token)
}

// A single word of four a's: (a,a) occurs twice non-overlapping, which meets
// the default floor. After that merge (aa,aa) occurs once and training stops.
func TestSingleWordDefaultFloor(t *testing.T) {
	c, tbl := loadTestCorpus(t, "aaaa\n", corpus.WeightUniform)

	res := New(c, tbl, Config{}, nil).Train()

	require.Equal(t, []string{"aa"}, mergedStrings(res, tbl))
	// oracle counts overlaps: "aa" occurs three times in "aaaa"
	require.Equal(t, int64(3), res.Rules[0].Frequency)
	require.Equal(t, []vocab.ID{tbl.Intern("aa"), tbl.Intern("aa")}, c.Words[0].Tokens)
}

// With the floor lowered to 1 the word collapses all the way down.
func TestSingleWordCollapsesAtFloorOne(t *testing.T) {
	c, tbl := loadTestCorpus(t, "aaaa\n", corpus.WeightUniform)

	res := New(c, tbl, Config{MinPairFrequency: 1}, nil).Train()

	require.Equal(t, []string{"aa", "aaaa"}, mergedStrings(res, tbl))
	require.Equal(t, int64(1), res.Rules[1].Frequency)
	require.Equal(t, []vocab.ID{tbl.Intern("aaaa")}, c.Words[0].Tokens)
}

func TestEmptyCorpus(t *testing.T) {
	c, tbl := loadTestCorpus(t, "", corpus.WeightUniform)

	res := New(c, tbl, Config{}, nil).Train()

	require.Empty(t, res.Rules)
	require.Empty(t, res.Vocabulary)
}

func TestMaxMergesCap(t *testing.T) {
	input := "low 5\nlower 2\nnewest 6\nwidest 3\n"
	c, tbl := loadTestCorpus(t, input, corpus.WeightTF)

	res := New(c, tbl, Config{MaxMerges: 3}, nil).Train()

	require.Equal(t, []string{"es", "est", "lo"}, mergedStrings(res, tbl))
}

func TestDeterministicAcrossRuns(t *testing.T) {
	input := "low 5\nlower 2\nnewest 6\nwidest 3\nbanana 4\nbandana 1\n"

	var prev []string
	for run := 0; run < 5; run++ {
		c, tbl := loadTestCorpus(t, input, corpus.WeightTF)
		res := New(c, tbl, Config{}, nil).Train()
		got := mergedStrings(res, tbl)
		if prev != nil {
			require.Equal(t, prev, got, "run %d diverged", run)
		}
		prev = got
	}
}

// The incremental trainer must produce the same merge sequence as a
// from-scratch rescan on randomly generated corpora.
func TestMatchesFullRescanOnRandomCorpora(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abc")

	for trial := 0; trial < 10; trial++ {
		var sb strings.Builder
		words := make([]string, 0, 25)
		weights := make([]int, 0, 25)
		for i := 0; i < 25; i++ {
			n := 1 + rng.Intn(7)
			var w strings.Builder
			for j := 0; j < n; j++ {
				w.WriteRune(alphabet[rng.Intn(len(alphabet))])
			}
			weight := 1 + rng.Intn(3)
			words = append(words, w.String())
			weights = append(weights, weight)
			sb.WriteString(w.String() + " " + strconv.Itoa(weight) + "\n")
		}

		c, tbl := loadTestCorpus(t, sb.String(), corpus.WeightTF)
		res := New(c, tbl, Config{}, nil).Train()

		want := rescanReference(words, weights, DefaultMinPairFrequency)
		require.Equal(t, want, mergedStrings(res, tbl), "trial %d", trial)
	}
}

// rescanReference is a direct, unoptimized transcription of the algorithm:
// full pair scan, greedy non-overlapping counts, lexicographic tie-break.
func rescanReference(words []string, weights []int, minFreq int64) []string {
	segs := make([][]string, len(words))
	for i, w := range words {
		for _, r := range w {
			segs[i] = append(segs[i], string(r))
		}
	}

	countIn := func(seg []string, l, r string) int64 {
		var n int64
		for i := 0; i+1 < len(seg); {
			if seg[i] == l && seg[i+1] == r {
				n++
				i += 2
			} else {
				i++
			}
		}
		return n
	}

	var out []string
	for {
		type sp struct{ l, r string }
		freqs := make(map[sp]int64)
		for _, seg := range segs {
			for j := 0; j+1 < len(seg); j++ {
				p := sp{seg[j], seg[j+1]}
				if _, seen := freqs[p]; !seen {
					var total int64
					for k, other := range segs {
						total += countIn(other, p.l, p.r) * int64(weights[k])
					}
					freqs[p] = total
				}
			}
		}

		var best sp
		var bestFreq int64
		found := false
		for p, f := range freqs {
			if !found || f > bestFreq ||
				(f == bestFreq && (p.l < best.l || (p.l == best.l && p.r < best.r))) {
				best, bestFreq, found = p, f, true
			}
		}
		if !found || bestFreq < minFreq {
			return out
		}

		merged := best.l + best.r
		out = append(out, merged)
		for i, seg := range segs {
			var ns []string
			for j := 0; j < len(seg); {
				if j+1 < len(seg) && seg[j] == best.l && seg[j+1] == best.r {
					ns = append(ns, merged)
					j += 2
				} else {
					ns = append(ns, seg[j])
					j++
				}
			}
			segs[i] = ns
		}
	}
}
