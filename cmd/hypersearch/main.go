package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/XiaoConstantine/hyperband-go/pkg/config"
	"github.com/XiaoConstantine/hyperband-go/pkg/hyperband"
	"github.com/XiaoConstantine/hyperband-go/pkg/logging"
	"github.com/XiaoConstantine/hyperband-go/pkg/record"
	"github.com/XiaoConstantine/hyperband-go/pkg/space"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		seed       = flag.Int64("seed", 0, "override the sampling seed")
	)
	flag.Parse()

	if err := run(*configPath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "hypersearch: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	logger := logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.LogLevel),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	})
	logging.SetLogger(logger)

	var recorders []record.Recorder

	if cfg.Output.Trace != "" {
		fr, err := record.NewFileRecorder(cfg.Output.Trace)
		if err != nil {
			return err
		}
		recorders = append(recorders, fr)
	}
	if cfg.Output.SQLite != "" {
		sr, err := record.NewSQLiteRecorder(cfg.Output.SQLite)
		if err != nil {
			return err
		}
		recorders = append(recorders, sr)
	}

	var mem *record.MemoryRecorder
	if cfg.Output.Parquet != "" {
		mem = record.NewMemoryRecorder()
		recorders = append(recorders, mem)
	}

	rec := record.NewMultiRecorder(recorders...)
	defer rec.Close()

	objectiveSeed := cfg.Seed + 1
	if cfg.Seed == 0 {
		objectiveSeed = time.Now().UnixNano()
	}
	evaluator := hyperband.NewSynthetic("momentum", cfg.Noise, objectiveSeed)

	hb, err := hyperband.New(space.MNISTCNN(), evaluator,
		hyperband.WithEta(cfg.Eta),
		hyperband.WithMaxBudget(cfg.MaxBudget),
		hyperband.WithSeed(cfg.Seed),
		hyperband.WithParallelism(cfg.Parallelism),
		hyperband.WithRecorder(rec),
		hyperband.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	result, err := hb.Search(context.Background())
	if err != nil {
		return err
	}

	if mem != nil {
		if err := record.WriteParquet(cfg.Output.Parquet, mem.Entries()); err != nil {
			return err
		}
	}

	fmt.Printf("run %s\n", result.RunID)
	fmt.Printf("best configuration: %s\n", result.Best)
	fmt.Printf("best validation loss: %.6f (accuracy %.2f%%)\n", result.BestLoss, result.BestAccuracy)
	fmt.Printf("cumulative cost: %.3f max-budget units\n", result.CumulativeCost)
	return nil
}
