// Package wordstat counts term and document frequencies over a cleaned
// corpus, producing the weighted word list the trainer consumes.
package wordstat

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Stat holds the counts for one lowercased word. TF is the total number of
// occurrences; DF the number of lines the word appears in at least once.
type Stat struct {
	Word string
	TF   int64
	DF   int64
}

type counts struct {
	tf int64
	df int64
}

// Count tallies tf/df over lines in parallel: the lines are split into
// contiguous chunks, each worker fills a local map with no shared state, and
// the local maps are summed once all workers are done. Since df counts
// lines, per-chunk df values add up correctly.
//
// The result is sorted by tf descending, ties by word ascending.
func Count(lines []string, workers int) []Stat {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunkSize := (len(lines) + workers - 1) / workers
	if chunkSize == 0 {
		return nil
	}

	locals := make([]map[string]counts, workers)
	var g errgroup.Group
	for t := 0; t < workers; t++ {
		start := t * chunkSize
		if start >= len(lines) {
			break
		}
		end := min(len(lines), start+chunkSize)
		t := t
		g.Go(func() error {
			local := make(map[string]counts)
			for _, line := range lines[start:end] {
				countLine(line, local)
			}
			locals[t] = local
			return nil
		})
	}
	// workers never fail; Wait only synchronizes
	_ = g.Wait()

	global := make(map[string]counts)
	for _, local := range locals {
		for w, c := range local {
			agg := global[w]
			agg.tf += c.tf
			agg.df += c.df
			global[w] = agg
		}
	}

	stats := make([]Stat, 0, len(global))
	for w, c := range global {
		stats = append(stats, Stat{Word: w, TF: c.tf, DF: c.df})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TF != stats[j].TF {
			return stats[i].TF > stats[j].TF
		}
		return stats[i].Word < stats[j].Word
	})
	return stats
}

func countLine(line string, local map[string]counts) {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(line) {
		word = strings.ToLower(word)
		c := local[word]
		c.tf++
		local[word] = c
		seen[word] = struct{}{}
	}
	for word := range seen {
		c := local[word]
		c.df++
		local[word] = c
	}
}
