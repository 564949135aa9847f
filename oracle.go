package nogo

import (
	"errors"
	"fmt"
	"log/slog"
)

// OracleResult is the outcome of one per-pillar monotonicity check.
type OracleResult struct {
	Pillar   Pillar
	Step     string
	Before   float64
	After    float64
	Delta    float64
	Required float64
	Passed   bool
}

func (r OracleResult) String() string {
	verdict := "PASS"
	if !r.Passed {
		verdict = "FAIL"
	}
	return fmt.Sprintf("%s  %-7s %-20s Δ = %+.4f (required ≥ %.4f)",
		verdict, r.Pillar, r.Step, r.Delta, r.Required)
}

// Err returns nil for a passing oracle and an ErrOracle wrap otherwise.
func (r OracleResult) Err() error {
	if r.Passed {
		return nil
	}
	return fmt.Errorf("%s across %s: Δ = %.4f < %.4f: %w",
		r.Pillar, r.Step, r.Delta, r.Required, ErrOracle)
}

// RoundTripResult compares the closing state with X₀.
type RoundTripResult struct {
	Comparison
	Tolerance float64
	Passed    bool
}

func (r RoundTripResult) String() string {
	verdict := "PASS"
	if !r.Passed {
		verdict = "FAIL"
	}
	return fmt.Sprintf("%s  round trip: bits equal %v, max |Δρ| = %.2e, max cloud shift = %.2e, fidelity = %.12f",
		verdict, r.BitsEqual, r.QuantumMaxAbs, r.CloudMaxDist, r.Fidelity)
}

// Err returns nil when the closing step landed on X₀ and an ErrRoundTrip
// wrap carrying the discrepancy otherwise.
func (r RoundTripResult) Err() error {
	if r.Passed {
		return nil
	}
	return fmt.Errorf("bits equal %v, max |Δρ| = %.3e, max cloud shift = %.3e (tolerance %.1e): %w",
		r.BitsEqual, r.QuantumMaxAbs, r.CloudMaxDist, r.Tolerance, ErrRoundTrip)
}

// OracleReport collects the four oracles and the round trip.
type OracleReport struct {
	Oracles   []OracleResult
	RoundTrip RoundTripResult
}

// Err joins every failure. Oracle failures come first, the round trip
// last.
func (r OracleReport) Err() error {
	var errs []error
	for _, o := range r.Oracles {
		if err := o.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.RoundTrip.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Passed reports whether every check passed.
func (r OracleReport) Passed() bool {
	return r.Err() == nil
}

type oracleStep struct {
	pillar Pillar
	name   string
	apply  func(State) (State, error)
}

// RunOracles applies each forward morphism to its canonical predecessor and
// checks that the target proxy rises by the configured threshold, then
// checks that the closing step returns to X₀.
//
// Every oracle is evaluated even after a failure; failures are reported in
// the result, see OracleReport.Err. The returned error is reserved for
// invariant violations that stop the pipeline.
func RunOracles(cfg Config) (OracleReport, error) {
	m, err := NewMorphisms(cfg)
	if err != nil {
		return OracleReport{}, err
	}

	var trace Trace
	steps := []oracleStep{
		{Alg, StepCompile, m.CircuitCompilation},
		{Info, StepSyndrome, func(s State) (State, error) {
			out, rec, err := m.SyndromeEncoding(s)
			if err != nil {
				return State{}, err
			}
			trace.Measurement = &rec
			return out, nil
		}},
		{Dyn, StepMix, m.DynamicalMixing},
		{Geom, StepAnnulus, m.AnnulusTransform},
	}
	required := [4]float64{cfg.Thresholds.Alg, cfg.Thresholds.Info, cfg.Thresholds.Dyn, cfg.Thresholds.Geom}

	x0 := InitialState(cfg.CloudSize)
	prev := x0
	var report OracleReport

	for _, st := range steps {
		next, err := st.apply(prev)
		if err != nil {
			return OracleReport{}, err
		}
		trace.Steps = append(trace.Steps, st.name)

		before, err := ComputeProfile(prev, cfg)
		if err != nil {
			return OracleReport{}, err
		}
		after, err := ComputeProfile(next, cfg)
		if err != nil {
			return OracleReport{}, err
		}

		res := OracleResult{
			Pillar:   st.pillar,
			Step:     st.name,
			Before:   before.Get(st.pillar),
			After:    after.Get(st.pillar),
			Required: required[st.pillar],
		}
		res.Delta = res.After - res.Before
		res.Passed = res.Delta >= res.Required
		report.Oracles = append(report.Oracles, res)

		slog.Debug("oracle", "pillar", st.pillar.String(), "delta", res.Delta, "required", res.Required, "passed", res.Passed)
		prev = next
	}

	closed, err := m.Closing(prev, trace)
	if err != nil {
		return OracleReport{}, err
	}
	report.RoundTrip = RoundTrip(x0, closed, cfg.RoundTripTolerance)

	return report, nil
}

// RoundTrip compares a closing state with the initial state.
func RoundTrip(x0, closed State, tol float64) RoundTripResult {
	cmp := CompareStates(x0, closed)
	return RoundTripResult{
		Comparison: cmp,
		Tolerance:  tol,
		Passed:     cmp.Within(tol),
	}
}
