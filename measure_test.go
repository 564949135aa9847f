package nogo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ghzState() State {
	s := InitialState(16)
	s.Quantum = conjugateBy(cmul(cnot(0, 2), cmul(cnot(0, 1), hadamard(0))), s.Quantum)
	return s
}

func TestMeasure_GHZ(t *testing.T) {
	rho := ghzState().Quantum

	for seed := uint64(0); seed < 20; seed++ {
		collapsed, rec, err := Measure(rho, 0, rand.NewPCG(seed, 1))
		require.NoError(t, err)

		assert.InDelta(t, 0.5, rec.Probability, 1e-12)
		idx := 0
		if rec.Outcome == 1 {
			idx = Dim - 1
		}
		assert.InDelta(t, 1, real(collapsed.At(idx, idx)), 1e-12, "seed %d", seed)
		assert.InDelta(t, 1, Purity(collapsed), 1e-12)

		restored, err := Unmeasure(collapsed, rec)
		require.NoError(t, err)
		assert.Less(t, maxAbsDiff(restored, rho), 1e-12)
	}
	t.Logf("✓ GHZ collapses to |000⟩ or |111⟩ with p = 1/2 and is restored from the record")
}

func TestMeasure_BothOutcomesOccur(t *testing.T) {
	rho := ghzState().Quantum
	var counts [2]int
	for seed := uint64(0); seed < 200; seed++ {
		_, rec, err := Measure(rho, 0, rand.NewPCG(seed, 99))
		require.NoError(t, err)
		counts[rec.Outcome]++
	}

	assert.Greater(t, counts[0], 50)
	assert.Greater(t, counts[1], 50)
	t.Logf("✓ Born draws over 200 seeds: %d × 0, %d × 1", counts[0], counts[1])
}

func TestMeasure_Deterministic(t *testing.T) {
	rho := ghzState().Quantum
	_, a, err := Measure(rho, 0, rand.NewPCG(42, measurementStream))
	require.NoError(t, err)
	_, b, err := Measure(rho, 0, rand.NewPCG(42, measurementStream))
	require.NoError(t, err)

	assert.Equal(t, a.Outcome, b.Outcome)
	assert.Equal(t, a.Probability, b.Probability)
}

func TestMeasure_CertainOutcome(t *testing.T) {
	rho := InitialState(16).Quantum
	for seed := uint64(0); seed < 50; seed++ {
		_, rec, err := Measure(rho, 0, rand.NewPCG(seed, 3))
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Outcome)
		assert.InDelta(t, 1, rec.Probability, 1e-15)
	}
}

func TestMeasure_BadQubit(t *testing.T) {
	_, _, err := Measure(InitialState(16).Quantum, NumQubits, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, ErrDimension)
}

func TestUnmeasure_MissingResidual(t *testing.T) {
	_, err := Unmeasure(InitialState(16).Quantum, MeasurementRecord{})
	assert.ErrorIs(t, err, ErrMissingRecord)
}

func TestDepolarize_Inverse(t *testing.T) {
	rho := ghzState().Quantum
	noisy := Depolarize(rho, 0.1)

	assert.InDelta(t, 1, real(ctrace(noisy)), 1e-12)
	// (1-s)² + 2s(1-s)/8 + s²/8
	assert.InDelta(t, 0.83375, Purity(noisy), 1e-12)
	assert.Less(t, maxAbsDiff(Repolarize(noisy, 0.1), rho), 1e-12)
}

func TestDepolarize_Spectrum(t *testing.T) {
	// Collapsed |000⟩ under s = 0.1: one eigenvalue 0.9125, seven 0.0125.
	noisy := Depolarize(InitialState(16).Quantum, 0.1)

	vals, err := hermitianEigenvalues(noisy)
	require.NoError(t, err)
	for _, v := range vals[:Dim-1] {
		assert.InDelta(t, 0.0125, v, 1e-12)
	}
	assert.InDelta(t, 0.9125, vals[Dim-1], 1e-12)
	assert.InDelta(t, 0.83375, Purity(noisy), 1e-12)
}
