// bpetrain trains a BPE vocabulary from a weighted word list.
//
//	bpetrain [flags] input.txt
//
// writes input_tokens.txt (final vocabulary with exact corpus frequencies)
// and input_merges.txt (ordered merge rules).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bpetrain/internal/config"
	"github.com/bpetrain/internal/corpus"
	"github.com/bpetrain/internal/trainer"
	"github.com/bpetrain/internal/vocab"
)

var (
	weightsFlag = &cli.StringFlag{
		Name:  "weights",
		Usage: "word weight mode: \"uniform\" (every word counts once) or \"tf\" (second column)",
		Value: "uniform",
	}
	minFreqFlag = &cli.Int64Flag{
		Name:  "min-freq",
		Usage: "stop merging once no pair reaches this weighted frequency",
		Value: trainer.DefaultMinPairFrequency,
	}
	maxMergesFlag = &cli.IntFlag{
		Name:  "max-merges",
		Usage: "hard cap on the number of merges, 0 for unlimited",
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML config file; explicit flags override it",
	}
	quietFlag = &cli.BoolFlag{
		Name:  "quiet",
		Usage: "suppress per-merge progress output",
	}
)

func main() {
	app := &cli.App{
		Name:      "bpetrain",
		Usage:     "train a BPE vocabulary from a weighted word list",
		ArgsUsage: "<input-file>",
		Flags: []cli.Flag{
			weightsFlag, minFreqFlag, maxMergesFlag, configFlag, quietFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: bpetrain [flags] <input-file>", 1)
	}
	inputPath := ctx.Args().First()

	logger, err := buildLogger(ctx.Bool(quietFlag.Name))
	if err != nil {
		return err
	}
	defer logger.Sync()

	mode, cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	table := vocab.NewTable()
	c, err := corpus.Load(in, mode, table, logger)
	if err != nil {
		return err
	}

	logger.Info("building frequency oracle and pair index")
	res := trainer.New(c, table, cfg, logger).Train()

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if err := writeFile(base+"_tokens.txt", func(f *os.File) error {
		return trainer.WriteVocab(f, res)
	}); err != nil {
		return err
	}
	if err := writeFile(base+"_merges.txt", func(f *os.File) error {
		return trainer.WriteMerges(f, res, table)
	}); err != nil {
		return err
	}

	logger.Info("done",
		zap.String("tokens", base+"_tokens.txt"),
		zap.String("merges", base+"_merges.txt"))
	return nil
}

// resolveConfig layers defaults, the optional config file, and explicit
// flags, in that order.
func resolveConfig(ctx *cli.Context) (corpus.WeightMode, trainer.Config, error) {
	weights := ctx.String(weightsFlag.Name)
	cfg := trainer.Config{
		MinPairFrequency: ctx.Int64(minFreqFlag.Name),
		MaxMerges:        ctx.Int(maxMergesFlag.Name),
	}

	if path := ctx.String(configFlag.Name); path != "" {
		fileCfg, err := config.LoadTrain(path)
		if err != nil {
			return 0, trainer.Config{}, err
		}
		if fileCfg.Weights != "" && !ctx.IsSet(weightsFlag.Name) {
			weights = fileCfg.Weights
		}
		if fileCfg.MinPairFrequency > 0 && !ctx.IsSet(minFreqFlag.Name) {
			cfg.MinPairFrequency = fileCfg.MinPairFrequency
		}
		if fileCfg.MaxMerges > 0 && !ctx.IsSet(maxMergesFlag.Name) {
			cfg.MaxMerges = fileCfg.MaxMerges
		}
	}

	var mode corpus.WeightMode
	switch weights {
	case "uniform":
		mode = corpus.WeightUniform
	case "tf":
		mode = corpus.WeightTF
	default:
		return 0, trainer.Config{}, fmt.Errorf("unknown weight mode %q", weights)
	}
	return mode, cfg, nil
}

func buildLogger(quiet bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
