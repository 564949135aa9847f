package nogo

import (
	"fmt"
	"strings"
	"testing"
)

// AssertionConfig holds the bars the Assert helpers apply on top of the
// results' own pass flags.
type AssertionConfig struct {
	// Minimum Tr(ρ₀ρ₀')/√(Tr ρ₀² Tr ρ₀'²) after the closing step
	MinFidelity float64

	// Minimum Σδ for the derivation to count as a contradiction
	MinSigma float64
}

// DefaultAssertionConfig returns strict bars.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MinFidelity: 1 - 1e-9,
		MinSigma:    0,
	}
}

// AssertValidState fails the test when s breaks a state invariant.
func AssertValidState(t *testing.T, s State) {
	t.Helper()

	if err := s.Validate(); err != nil {
		t.Errorf("invalid state (tags %v): %v", s.Tags, err)
	}
}

// AssertOracle verifies a single pillar rose by at least its threshold.
//
//	C(after) - C(before) ≥ required
func AssertOracle(t *testing.T, r OracleResult) {
	t.Helper()

	if r.Delta < r.Required {
		t.Errorf("%s across %s rose by %.4f (required ≥ %.4f)\n"+
			"before = %.4f, after = %.4f",
			r.Pillar, r.Step, r.Delta, r.Required, r.Before, r.After)
		return
	}

	t.Logf("✓ %s across %s: Δ = %.4f (threshold: %.4f)", r.Pillar, r.Step, r.Delta, r.Required)
}

// AssertRoundTrip verifies the closing step returned to X₀.
func AssertRoundTrip(t *testing.T, r RoundTripResult, cfg AssertionConfig) {
	t.Helper()

	if !r.BitsEqual {
		t.Errorf("closing step changed the classical register")
	}
	if r.QuantumMaxAbs > r.Tolerance {
		t.Errorf("max |ρ₀ - ρ₀'| = %.3e (tolerance %.1e)", r.QuantumMaxAbs, r.Tolerance)
	}
	if r.CloudMaxDist > r.Tolerance {
		t.Errorf("max cloud displacement = %.3e (tolerance %.1e)", r.CloudMaxDist, r.Tolerance)
	}
	if r.Fidelity < cfg.MinFidelity {
		t.Errorf("fidelity = %.12f (min: %.12f)", r.Fidelity, cfg.MinFidelity)
	}

	t.Logf("✓ Round trip: max |Δρ| = %.2e, fidelity = %.12f", r.QuantumMaxAbs, r.Fidelity)
}

// AssertOracles runs AssertOracle for every pillar and AssertRoundTrip as
// subtests, so all failures are reported together.
func AssertOracles(t *testing.T, report OracleReport) {
	t.Helper()

	cfg := DefaultAssertionConfig()
	for _, r := range report.Oracles {
		t.Run(r.Pillar.String(), func(t *testing.T) {
			AssertOracle(t, r)
		})
	}
	t.Run("RoundTrip", func(t *testing.T) {
		AssertRoundTrip(t, report.RoundTrip, cfg)
	})
}

// AssertMetadataIndependent verifies the proxies ignore provenance: s with
// its tags replaced must score identically.
func AssertMetadataIndependent(t *testing.T, s State, cfg Config) {
	t.Helper()

	want, err := ComputeProfile(s, cfg)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	retagged := s.Clone()
	retagged.Tags = []string{"unrelated", StepMix, StepAnnulus, StepMix}
	got, err := ComputeProfile(retagged, cfg)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	for _, p := range Pillars {
		if got.Get(p) != want.Get(p) {
			t.Errorf("%s depends on tags: %.6f with %v, %.6f with %v",
				p, want.Get(p), s.Tags, got.Get(p), retagged.Tags)
		}
	}
}

// AssertContradiction verifies the cycle yields 0 ≥ Σδ with Σδ > 0.
func AssertContradiction(t *testing.T, rep CycleReport, cfg AssertionConfig) {
	t.Helper()

	if rep.Sigma <= cfg.MinSigma {
		t.Errorf("Σδ = %.4f (must exceed %.4f)", rep.Sigma, cfg.MinSigma)
	}
	if !rep.RoundTrip.Passed {
		t.Errorf("closing step is not an isomorphism: %v", rep.RoundTrip.Err())
	}
	if !strings.Contains(rep.Derivation(), "which is false") {
		t.Errorf("derivation does not conclude a contradiction:\n%s", rep.Derivation())
	}

	t.Logf("✓ Contradiction: 0 ≥ Σδ = %.4f is false", rep.Sigma)
}

// PrintCycle writes the full cycle report to the test log.
func PrintCycle(t *testing.T, rep CycleReport) {
	t.Helper()

	var b strings.Builder
	if _, err := rep.WriteTo(&b); err != nil {
		t.Fatalf("render report: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		t.Log(line)
	}
}

// AssertDeterministic verifies two runs with the same config produced
// bit-identical proxy tables and the same measurement outcome.
func AssertDeterministic(t *testing.T, a, b CycleReport) {
	t.Helper()

	if a.Outcome != b.Outcome {
		t.Errorf("measurement outcome differs: %d vs %d", a.Outcome, b.Outcome)
	}
	for i := range a.Profiles {
		if a.Profiles[i] != b.Profiles[i] {
			t.Errorf("%s differs:\n  %s\n  %s",
				StateLabels[i], describeProfile(a.Profiles[i]), describeProfile(b.Profiles[i]))
		}
	}

	t.Logf("✓ Deterministic: seed %d reproduced Σδ = %.4f", a.Seed, a.Sigma)
}

// describeProfile formats a profile for failure messages.
func describeProfile(p Profile) string {
	parts := make([]string, len(Pillars))
	for i, pl := range Pillars {
		parts[i] = fmt.Sprintf("%s=%.4f", pl, p.Get(pl))
	}
	return strings.Join(parts, " ")
}
