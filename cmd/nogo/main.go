// Command nogo runs the five-step cycle: the four oracle checks, the round
// trip, the proxy tables and the contradiction derivation. With --sweep it
// repeats the cycle over a list of seeds.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/alexshd/nogo"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := nogo.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	var (
		sweep    = pflag.Bool("sweep", false, "run the cycle for every sweep seed")
		csvPath  = pflag.String("csv", "", "write the sweep table to this CSV file")
		seed     = pflag.Uint64("seed", cfg.Seed, "measurement seed")
		cloud    = pflag.Int("cloud", cfg.CloudSize, "points in the geometric cloud")
		logLevel = pflag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	)
	pflag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(*logLevel))); err != nil {
		fmt.Fprintln(os.Stderr, "log level:", err)
		return 2
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	).With("run", uuid.NewString()))

	cfg.Seed = *seed
	cfg.CloudSize = *cloud
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		return 2
	}

	if *sweep {
		return runSweep(cfg, *csvPath)
	}
	return runCycle(cfg)
}

func runCycle(cfg nogo.Config) int {
	slog.Info("running oracles", "seed", cfg.Seed, "cloud", cfg.CloudSize)

	report, err := nogo.RunOracles(cfg)
	if err != nil {
		slog.Error("oracle run aborted", "err", err)
		return 1
	}

	fmt.Println("=== Oracle tests ===")
	for _, r := range report.Oracles {
		fmt.Println(r)
	}
	fmt.Println(report.RoundTrip)
	fmt.Println()

	cycle, err := nogo.RunCycle(cfg)
	if err != nil {
		slog.Error("cycle aborted", "err", err)
		return 1
	}
	if _, err := cycle.WriteTo(os.Stdout); err != nil {
		slog.Error("write report", "err", err)
		return 1
	}

	if err := report.Err(); err != nil {
		slog.Error("checks failed", "err", err)
		return 1
	}

	fmt.Println("\nAll oracle tests and the round trip passed.")
	return 0
}

func runSweep(cfg nogo.Config, csvPath string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("sweeping seeds", "seeds", len(cfg.SweepSeeds), "workers", cfg.Workers)

	results, err := nogo.Sweep(ctx, cfg)
	if err != nil {
		slog.Error("sweep aborted", "err", err)
		return 1
	}

	stats := nogo.Summarize(results)
	if err := nogo.WriteSummary(os.Stdout, results, stats); err != nil {
		slog.Error("write summary", "err", err)
		return 1
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			slog.Error("create csv", "path", csvPath, "err", err)
			return 1
		}
		if err := nogo.WriteCSV(f, results); err != nil {
			f.Close()
			slog.Error("write csv", "path", csvPath, "err", err)
			return 1
		}
		if err := f.Close(); err != nil {
			slog.Error("close csv", "path", csvPath, "err", err)
			return 1
		}
		slog.Info("wrote sweep table", "path", csvPath)
	}

	if stats.AllPass < 1 {
		slog.Error("some seeds failed", "pass_rate", stats.AllPass)
		return 1
	}
	return 0
}
