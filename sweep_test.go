package nogo

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_DefaultSeeds(t *testing.T) {
	cfg := testConfig()

	results, err := Sweep(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, results, len(cfg.SweepSeeds))

	for i, r := range results {
		assert.Equal(t, cfg.SweepSeeds[i], r.Seed, "results keep seed order")
		assert.True(t, r.AllPassed(), "seed %d: %+v", r.Seed, r)
		assert.Greater(t, r.Sigma, 0.0)
	}

	st := Summarize(results)
	assert.Equal(t, len(cfg.SweepSeeds), st.Runs)
	assert.Equal(t, 1.0, st.AllPass)
	for _, p := range Pillars {
		assert.Equal(t, 1.0, st.PassRate[p], "%s", p)
	}
	assert.LessOrEqual(t, st.SigmaMin, st.SigmaP50)
	assert.LessOrEqual(t, st.SigmaP50, st.SigmaMax)
	assert.GreaterOrEqual(t, st.SigmaMean, st.SigmaMin)
	assert.LessOrEqual(t, st.SigmaMean, st.SigmaMax)

	var out bytes.Buffer
	require.NoError(t, WriteSummary(&out, results, st))
	t.Log("\n" + out.String())
}

func TestSweep_MatchesSingleRuns(t *testing.T) {
	cfg := testConfig()
	cfg.SweepSeeds = []uint64{3, 42, 99}
	cfg.Workers = 3

	results, err := Sweep(context.Background(), cfg)
	require.NoError(t, err)

	for _, r := range results {
		single := cfg
		single.Seed = r.Seed
		rep, err := RunCycle(single)
		require.NoError(t, err)
		assert.Equal(t, rep.Sigma, r.Sigma, "seed %d", r.Seed)
		assert.Equal(t, rep.Outcome, r.Outcome, "seed %d", r.Seed)
	}
}

func TestSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteCSV(t *testing.T) {
	results := []SeedResult{
		{Seed: 7, Outcome: 1, Targets: [4]float64{0.7, 0.4677, 0.0945, 0.9999}, Passed: [4]bool{true, true, true, true}, Sigma: 2.2621, RoundTrip: true},
		{Seed: 13, Outcome: 0, Targets: [4]float64{0.7, 0.3677, 0.06, 0.9999}, Passed: [4]bool{true, true, true, true}, Sigma: 2.1276, RoundTrip: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sweepHeader, rows[0])
	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "0.094500", rows[1][4])
	assert.Equal(t, "true", rows[2][11])
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, SweepStatistics{}, Summarize(nil))
}

func TestSummarize_SingleRun(t *testing.T) {
	st := Summarize([]SeedResult{{Seed: 1, Sigma: 1.5, Passed: [4]bool{true, false, true, true}, RoundTrip: true}})

	assert.Equal(t, 1, st.Runs)
	assert.Zero(t, st.SigmaStd)
	assert.Equal(t, 1.5, st.SigmaP50)
	assert.Equal(t, 0.0, st.PassRate[Info])
	assert.Equal(t, 0.0, st.AllPass)
}

func TestSummarize_PopulationStd(t *testing.T) {
	results := []SeedResult{{Sigma: 1}, {Sigma: 2}, {Sigma: 3}}

	st := Summarize(results)
	assert.InDelta(t, 2, st.SigmaMean, 1e-15)
	assert.InDelta(t, math.Sqrt(2.0/3), st.SigmaStd, 1e-15)
	t.Logf("✓ σ over {1,2,3} divides by n: %.4f", st.SigmaStd)
}
