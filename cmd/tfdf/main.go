// tfdf counts term and document frequencies over a cleaned corpus file.
//
//	tfdf input.latin.step1
//
// writes input.latin.step1.tfdf.tsv with `word<TAB>tf<TAB>df` lines sorted
// by tf descending, which is exactly the layout bpetrain's --weights tf
// mode expects.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bpetrain/internal/wordstat"
)

var workersFlag = &cli.IntFlag{
	Name:  "workers",
	Usage: "worker pool size, 0 for number of CPUs",
}

func main() {
	app := &cli.App{
		Name:      "tfdf",
		Usage:     "count term and document frequencies over a cleaned corpus",
		ArgsUsage: "<clean-file>",
		Flags:     []cli.Flag{workersFlag},
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: tfdf <clean-file>", 1)
	}
	inputPath := ctx.Args().First()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	readErr := sc.Err()
	f.Close()
	if readErr != nil {
		return fmt.Errorf("reading input: %w", readErr)
	}

	stats := wordstat.Count(lines, ctx.Int(workersFlag.Name))
	logger.Info("counted",
		zap.Int("lines", len(lines)),
		zap.Int("distinct_words", len(stats)))

	outPath := inputPath + ".tfdf.tsv"
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	w := bufio.NewWriter(out)
	for _, s := range stats {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\n", s.Word, s.TF, s.DF); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}

	logger.Info("done", zap.String("output", outPath))
	return nil
}
