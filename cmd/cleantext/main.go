// cleantext filters a raw text dump down to lines of script-pure words.
//
//	cleantext --script latin input.txt
//
// writes input.latin.step1 with one cleaned line per surviving input line.
// Lines are independent, so the filtering runs across a worker pool.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bpetrain/internal/textfilter"
)

var (
	scriptFlag = &cli.StringFlag{
		Name:     "script",
		Usage:    "keep only words written in this script: latin or cyrillic",
		Required: true,
	}
	minWordsFlag = &cli.IntFlag{
		Name:  "min-words",
		Usage: "drop lines with fewer surviving words",
		Value: textfilter.DefaultMinWords,
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "worker pool size, 0 for number of CPUs",
	}
)

func main() {
	app := &cli.App{
		Name:      "cleantext",
		Usage:     "filter raw text to script-pure word lines",
		ArgsUsage: "<input-file>",
		Flags:     []cli.Flag{scriptFlag, minWordsFlag, workersFlag},
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: cleantext --script <latin|cyrillic> <input-file>", 1)
	}
	inputPath := ctx.Args().First()

	script, err := textfilter.ParseScript(ctx.String(scriptFlag.Name))
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	lines, err := readLines(inputPath)
	if err != nil {
		return err
	}

	cleaned, err := textfilter.Clean(lines, textfilter.Options{
		Script:   script,
		MinWords: ctx.Int(minWordsFlag.Name),
		Workers:  ctx.Int(workersFlag.Name),
	})
	if err != nil {
		return err
	}
	logger.Info("cleaned",
		zap.Int("lines_in", len(lines)),
		zap.Int("lines_out", len(cleaned)))

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	outPath := fmt.Sprintf("%s.%s.step1", base, script)
	if err := writeLines(outPath, cleaned); err != nil {
		return err
	}
	logger.Info("done", zap.String("output", outPath))
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
