package nogo

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOracles_Seed42(t *testing.T) {
	report, err := RunOracles(DefaultConfig())
	require.NoError(t, err)
	require.Len(t, report.Oracles, 4)

	AssertOracles(t, report)
	assert.NoError(t, report.Err())
	assert.True(t, report.Passed())

	for i, r := range report.Oracles {
		assert.Equal(t, Pillars[i], r.Pillar)
		assert.True(t, strings.HasPrefix(r.String(), "PASS"), r.String())
	}
}

func TestRunOracles_NoShortCircuit(t *testing.T) {
	cfg := testConfig()
	cfg.Thresholds.Alg = 5
	cfg.Thresholds.Dyn = 5

	report, err := RunOracles(cfg)
	require.NoError(t, err)
	require.Len(t, report.Oracles, 4, "every oracle runs after a failure")

	assert.False(t, report.Oracles[Alg].Passed)
	assert.True(t, report.Oracles[Info].Passed)
	assert.False(t, report.Oracles[Dyn].Passed)
	assert.True(t, report.Oracles[Geom].Passed)
	assert.True(t, report.RoundTrip.Passed)

	err = report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOracle)
	assert.False(t, errors.Is(err, ErrRoundTrip))
	assert.Contains(t, err.Error(), "C_alg")
	assert.Contains(t, err.Error(), "C_dyn")
	assert.True(t, strings.HasPrefix(report.Oracles[Alg].String(), "FAIL"))

	t.Logf("✓ failures reported together: %v", err)
}

func TestRoundTripResult_Err(t *testing.T) {
	x0 := InitialState(64)
	off := x0.Clone()
	off.Quantum.Set(0, 0, 1-1e-6)
	off.Quantum.Set(1, 1, 1e-6)

	rt := RoundTrip(x0, off, Tolerance)
	assert.False(t, rt.Passed)
	assert.ErrorIs(t, rt.Err(), ErrRoundTrip)
	assert.False(t, errors.Is(rt.Err(), ErrOracle))

	report := OracleReport{RoundTrip: rt}
	assert.ErrorIs(t, report.Err(), ErrRoundTrip)
}

func TestRunOracles_MatchesCycle(t *testing.T) {
	cfg := testConfig()

	report, err := RunOracles(cfg)
	require.NoError(t, err)
	cycle, err := RunCycle(cfg)
	require.NoError(t, err)

	for i, r := range report.Oracles {
		assert.Equal(t, cycle.Targets[i], r.Delta, "%s", r.Pillar)
	}
}
