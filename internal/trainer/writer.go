package trainer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bpetrain/internal/vocab"
)

// WriteVocab writes the final vocabulary as tab-separated `token<TAB>freq`
// lines under a header, in symbol creation order.
func WriteVocab(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "Token\tFrequency\n"); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	for _, tf := range res.Vocabulary {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", tf.Token, tf.Frequency); err != nil {
			return fmt.Errorf("writing vocabulary: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	return nil
}

// WriteMerges writes one line per merge rule, in merge order.
func WriteMerges(w io.Writer, res *Result, table *vocab.Table) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "Merge Rules (with original frequencies):\n"); err != nil {
		return fmt.Errorf("writing merges: %w", err)
	}
	for _, r := range res.Rules {
		_, err := fmt.Fprintf(bw, "(%s, %s) -> %s, frequency: %d\n",
			table.StringOf(r.Pair.Left), table.StringOf(r.Pair.Right),
			table.StringOf(r.Result), r.Frequency)
		if err != nil {
			return fmt.Errorf("writing merges: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing merges: %w", err)
	}
	return nil
}
