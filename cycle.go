package nogo

import (
	"fmt"
	"io"
	"strings"
)

// StateLabels names the rows of a cycle table.
var StateLabels = [6]string{"X0", "X1", "X2", "X3", "X4", "X0'"}

// targetPillar is the pillar step i (0-based) is expected to raise.
var targetPillar = [4]Pillar{Alg, Info, Dyn, Geom}

// CycleReport is the result of one pass X₀ → X₄ → X₀'.
type CycleReport struct {
	Seed      uint64
	Steps     []string
	Outcome   int        // Syndrome measurement outcome
	Profiles  [6]Profile // X₀…X₄, X₀'
	Deltas    [4]Profile // Profiles[i+1] - Profiles[i]
	Targets   [4]float64 // Target-pillar increase of each step
	Sigma     float64    // Σδ over Targets
	RoundTrip RoundTripResult
	Lyapunov  float64 // Cat map exponent, for the dynamical step
}

// RunCycle drives the five steps and computes every proxy table.
func RunCycle(cfg Config) (CycleReport, error) {
	m, err := NewMorphisms(cfg)
	if err != nil {
		return CycleReport{}, err
	}

	x0 := InitialState(cfg.CloudSize)
	states, trace, err := m.Forward(x0)
	if err != nil {
		return CycleReport{}, fmt.Errorf("forward pass: %w", err)
	}
	closed, err := m.Closing(states[len(states)-1], trace)
	if err != nil {
		return CycleReport{}, err
	}
	states = append(states, closed)

	r := CycleReport{
		Seed:      cfg.Seed,
		Steps:     trace.Steps,
		Outcome:   trace.Measurement.Outcome,
		RoundTrip: RoundTrip(x0, closed, cfg.RoundTripTolerance),
	}

	for i, s := range states {
		if r.Profiles[i], err = ComputeProfile(s, cfg); err != nil {
			return CycleReport{}, fmt.Errorf("%s: %w", StateLabels[i], err)
		}
	}
	for i := range r.Deltas {
		r.Deltas[i] = r.Profiles[i+1].Sub(r.Profiles[i])
		r.Targets[i] = r.Deltas[i].Get(targetPillar[i])
		r.Sigma += r.Targets[i]
	}

	if r.Lyapunov, err = CatLyapunov(); err != nil {
		return CycleReport{}, err
	}

	return r, nil
}

// Contradiction reports whether the cycle refutes a scalar that is both
// monotone under every step and invariant under the closing step.
func (r CycleReport) Contradiction() bool {
	return r.Sigma > 0 && r.RoundTrip.Passed
}

// Derivation renders the argument the cycle instantiates.
func (r CycleReport) Derivation() string {
	var b strings.Builder

	b.WriteString("Suppose a single scalar S ranks the complexity of every state.\n")
	b.WriteString("Monotonicity: each step raises S by at least its pillar increase:\n")
	for i, d := range r.Targets {
		fmt.Fprintf(&b, "  S(%s) ≥ S(%s) + %.4f   [%s, %s]\n",
			StateLabels[i+1], StateLabels[i], d, targetPillar[i], r.Steps[i])
	}
	fmt.Fprintf(&b, "Chaining: S(X4) ≥ S(X0) + Σδ = S(X0) + %.4f\n", r.Sigma)
	b.WriteString("Invariance: the closing step is an isomorphism X4 → X0, so S(X4) = S(X0).\n")
	fmt.Fprintf(&b, "Combined: 0 ≥ Σδ = %.4f", r.Sigma)

	if r.Contradiction() {
		b.WriteString(", which is false.\n")
		b.WriteString("No scalar is both monotone under these four steps and invariant under the closing isomorphism.\n")
	} else {
		b.WriteString(", which does not fail for this run.\n")
		b.WriteString("This run does not produce a contradiction.\n")
	}
	return b.String()
}

// WriteTo prints the proxy table, the delta table, the round trip and the
// derivation.
func (r CycleReport) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Five-step cycle (seed %d, measurement outcome %d) ===\n\n", r.Seed, r.Outcome)

	b.WriteString("Proxy values:\n")
	writeHeader(&b, "state")
	for i, p := range r.Profiles {
		writeRow(&b, StateLabels[i], p)
	}

	b.WriteString("\nDeltas:\n")
	writeHeader(&b, "step")
	for i, d := range r.Deltas {
		writeRow(&b, StateLabels[i]+"→"+StateLabels[i+1], d)
	}

	b.WriteString("\nTarget increases:\n")
	for i, d := range r.Targets {
		fmt.Fprintf(&b, "  %-20s %-7s %+.4f\n", r.Steps[i], targetPillar[i], d)
	}
	fmt.Fprintf(&b, "  Σδ = %.4f\n", r.Sigma)
	fmt.Fprintf(&b, "  cat map Lyapunov exponent λ = %.4f\n\n", r.Lyapunov)

	b.WriteString(r.RoundTrip.String())
	b.WriteString("\n\n")
	b.WriteString(r.Derivation())

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeHeader(b *strings.Builder, first string) {
	fmt.Fprintf(b, "  %-8s", first)
	for _, p := range Pillars {
		fmt.Fprintf(b, " %9s", p)
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, label string, p Profile) {
	fmt.Fprintf(b, "  %-8s", label)
	for _, v := range p {
		fmt.Fprintf(b, " %+9.4f", v)
	}
	b.WriteByte('\n')
}
