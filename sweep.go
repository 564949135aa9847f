package nogo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// SeedResult is one row of a robustness sweep.
type SeedResult struct {
	Seed      uint64
	Outcome   int
	Targets   [4]float64
	Passed    [4]bool
	Sigma     float64
	RoundTrip bool
}

// AllPassed reports whether every oracle and the round trip passed.
func (r SeedResult) AllPassed() bool {
	for _, ok := range r.Passed {
		if !ok {
			return false
		}
	}
	return r.RoundTrip
}

// SweepStatistics summarizes Σδ and the pass rates across seeds.
type SweepStatistics struct {
	Runs      int
	PassRate  [4]float64 // Per pillar
	AllPass   float64    // Fraction of seeds passing every check
	SigmaMean float64
	SigmaStd  float64
	SigmaMin  float64
	SigmaP50  float64
	SigmaMax  float64
}

// Sweep runs the cycle once per seed in cfg.SweepSeeds on cfg.Workers
// goroutines. Results are returned in seed-list order.
func Sweep(ctx context.Context, cfg Config) ([]SeedResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		results = make([]SeedResult, len(cfg.SweepSeeds))
		errs    = make([]error, len(cfg.SweepSeeds))
		jobs    = make(chan int)
	)

	for w := 0; w < min(cfg.Workers, len(cfg.SweepSeeds)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = runSeed(cfg, cfg.SweepSeeds[i])
			}
		}()
	}

feed:
	for i := range cfg.SweepSeeds {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", cfg.SweepSeeds[i], err)
		}
	}
	return results, nil
}

func runSeed(cfg Config, seed uint64) (SeedResult, error) {
	cfg.Seed = seed
	rep, err := RunCycle(cfg)
	if err != nil {
		return SeedResult{}, err
	}

	required := [4]float64{cfg.Thresholds.Alg, cfg.Thresholds.Info, cfg.Thresholds.Dyn, cfg.Thresholds.Geom}
	res := SeedResult{
		Seed:      seed,
		Outcome:   rep.Outcome,
		Targets:   rep.Targets,
		Sigma:     rep.Sigma,
		RoundTrip: rep.RoundTrip.Passed,
	}
	for i, d := range rep.Targets {
		res.Passed[i] = d >= required[i]
	}

	slog.Debug("sweep seed", "seed", seed, "outcome", res.Outcome, "sigma", res.Sigma, "passed", res.AllPassed())
	return res, nil
}

// Summarize computes pass rates and Σδ statistics.
func Summarize(results []SeedResult) SweepStatistics {
	st := SweepStatistics{Runs: len(results)}
	if len(results) == 0 {
		return st
	}

	sigma := make([]float64, len(results))
	for i, r := range results {
		sigma[i] = r.Sigma
		for p, ok := range r.Passed {
			if ok {
				st.PassRate[p]++
			}
		}
		if r.AllPassed() {
			st.AllPass++
		}
	}

	n := float64(len(results))
	for p := range st.PassRate {
		st.PassRate[p] /= n
	}
	st.AllPass /= n

	slices.Sort(sigma)
	st.SigmaMean, st.SigmaStd = stat.PopMeanStdDev(sigma, nil)
	st.SigmaMin = sigma[0]
	st.SigmaMax = sigma[len(sigma)-1]
	st.SigmaP50 = stat.Quantile(0.5, stat.Empirical, sigma, nil)

	return st
}

// sweepHeader is the CSV column order.
var sweepHeader = []string{
	"seed", "outcome",
	"delta_alg", "delta_info", "delta_dyn", "delta_geom",
	"pass_alg", "pass_info", "pass_dyn", "pass_geom",
	"sigma", "round_trip",
}

// WriteCSV writes one header row and one row per seed.
func WriteCSV(w io.Writer, results []SeedResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sweepHeader); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			strconv.FormatUint(r.Seed, 10),
			strconv.Itoa(r.Outcome),
		}
		for _, d := range r.Targets {
			row = append(row, strconv.FormatFloat(d, 'f', 6, 64))
		}
		for _, ok := range r.Passed {
			row = append(row, strconv.FormatBool(ok))
		}
		row = append(row,
			strconv.FormatFloat(r.Sigma, 'f', 6, 64),
			strconv.FormatBool(r.RoundTrip),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummary prints the per-seed table and the statistics.
func WriteSummary(w io.Writer, results []SeedResult, st SweepStatistics) error {
	if _, err := fmt.Fprintf(w, "=== Robustness sweep (%d seeds) ===\n", st.Runs); err != nil {
		return err
	}
	fmt.Fprintf(w, "  %-6s %-3s %9s %9s %9s %9s %9s  %s\n",
		"seed", "k", Alg, Info, Dyn, Geom, "Σδ", "status")
	for _, r := range results {
		status := "PASS"
		if !r.AllPassed() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "  %-6d %-3d %+9.4f %+9.4f %+9.4f %+9.4f %9.4f  %s\n",
			r.Seed, r.Outcome, r.Targets[0], r.Targets[1], r.Targets[2], r.Targets[3], r.Sigma, status)
	}

	fmt.Fprintf(w, "\nPass rates: %s %.0f%%, %s %.0f%%, %s %.0f%%, %s %.0f%%, all %.0f%%\n",
		Alg, 100*st.PassRate[Alg], Info, 100*st.PassRate[Info],
		Dyn, 100*st.PassRate[Dyn], Geom, 100*st.PassRate[Geom], 100*st.AllPass)
	_, err := fmt.Fprintf(w, "Σδ: mean %.4f ± %.4f, min %.4f, median %.4f, max %.4f\n",
		st.SigmaMean, st.SigmaStd, st.SigmaMin, st.SigmaP50, st.SigmaMax)
	return err
}
