package nogo

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Step names, recorded in State.Tags and Trace.Steps.
const (
	StepCompile  = "circuit_compilation"
	StepSyndrome = "syndrome_encoding"
	StepMix      = "dynamical_mixing"
	StepAnnulus  = "annulus_transform"
	StepClose    = "closing"
)

// lfsrSeed and the taps (3, 2) define the keystream circuit compilation
// XORs into the register.
var lfsrSeed = [4]uint8{0, 1, 1, 0}

// keystream returns the first NumBits outputs of the 4-bit Fibonacci LFSR.
// From lfsrSeed it is 01101101.
func keystream() Bits {
	s := lfsrSeed
	var out Bits
	for i := range out {
		out[i] = s[0]
		next := s[3] ^ s[2]
		s = [4]uint8{s[1], s[2], s[3], next}
	}
	return out
}

// Trace is what the forward pass hands to the closing step: the steps in
// application order and the measurement record needed to undo step 2.
type Trace struct {
	Steps       []string
	Measurement *MeasurementRecord
}

// Morphisms holds the precomputed operators of the four forward steps and
// the random source for the syndrome measurement.
type Morphisms struct {
	cfg     Config
	compile *mat.CDense // CNOT(0,2)·CNOT(0,1)·H(0)
	floquet *mat.CDense // kicked Ising U_F^kicks
	src     rand.Source
}

// measurementStream separates the measurement PCG stream from any other
// consumer of the same seed.
const measurementStream = 0x6e6f676f

// NewMorphisms builds the operators for cfg. The measurement source is a
// PCG seeded from cfg.Seed, so two instances with the same config draw the
// same outcomes.
func NewMorphisms(cfg Config) (*Morphisms, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	floquet, err := KickedIsing(cfg.IsingJ, cfg.IsingH, cfg.IsingTau, cfg.Kicks)
	if err != nil {
		return nil, fmt.Errorf("floquet operator: %w", err)
	}

	return &Morphisms{
		cfg:     cfg,
		compile: cmul(cnot(0, 2), cmul(cnot(0, 1), hadamard(0))),
		floquet: floquet,
		src:     rand.NewPCG(cfg.Seed, measurementStream),
	}, nil
}

// CircuitCompilation XORs the LFSR keystream into the register and applies
// the GHZ preparation circuit to ρ. The cloud is untouched.
func (m *Morphisms) CircuitCompilation(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("%s input: %w", StepCompile, err)
	}

	out := State{
		Classical: s.Classical.Xor(keystream()),
		Quantum:   conjugateBy(m.compile, s.Quantum),
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag(StepCompile),
	}
	return out.settle(StepCompile)
}

// UndoCircuitCompilation is the inverse of CircuitCompilation.
func (m *Morphisms) UndoCircuitCompilation(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("undo_%s input: %w", StepCompile, err)
	}

	out := State{
		Classical: s.Classical.Xor(keystream()),
		Quantum:   conjugateBy(adjoint(m.compile), s.Quantum),
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag("undo_" + StepCompile),
	}
	return out.settle("undo_" + StepCompile)
}

// parityFold replaces the second bit of every 2-bit block with the block
// parity. It is its own inverse.
func parityFold(b Bits) Bits {
	for i := 0; i < NumBits; i += 2 {
		b[i+1] ^= b[i]
	}
	return b
}

// SyndromeEncoding stores block parities in the register, measures the
// configured qubit and writes the outcome into bit 0, then depolarizes ρ.
// The returned record is required to undo the step.
func (m *Morphisms) SyndromeEncoding(s State) (State, MeasurementRecord, error) {
	if err := s.Validate(); err != nil {
		return State{}, MeasurementRecord{}, fmt.Errorf("%s input: %w", StepSyndrome, err)
	}

	collapsed, rec, err := Measure(s.Quantum, m.cfg.MeasuredQubit, m.src)
	if err != nil {
		return State{}, MeasurementRecord{}, fmt.Errorf("%s: %w", StepSyndrome, err)
	}
	slog.Debug("syndrome measurement", "qubit", rec.Qubit, "outcome", rec.Outcome, "p", rec.Probability)

	bits := parityFold(s.Classical)
	bits[0] ^= uint8(rec.Outcome)

	out := State{
		Classical: bits,
		Quantum:   Depolarize(collapsed, m.cfg.Depolarizing),
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag(StepSyndrome),
	}
	out, err = out.settle(StepSyndrome)
	if err != nil {
		return State{}, MeasurementRecord{}, err
	}
	return out, rec, nil
}

// UndoSyndromeEncoding inverts SyndromeEncoding given its record: the
// depolarizing channel is inverted linearly and the discarded branch is
// restored from the residual.
func (m *Morphisms) UndoSyndromeEncoding(s State, rec *MeasurementRecord) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("undo_%s input: %w", StepSyndrome, err)
	}

	if rec == nil {
		return State{}, fmt.Errorf("undo_%s: %w", StepSyndrome, ErrMissingRecord)
	}

	rho, err := Unmeasure(Repolarize(s.Quantum, m.cfg.Depolarizing), *rec)
	if err != nil {
		return State{}, fmt.Errorf("undo_%s: %w", StepSyndrome, err)
	}

	bits := s.Classical
	bits[0] ^= uint8(rec.Outcome)

	out := State{
		Classical: parityFold(bits),
		Quantum:   rho,
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag("undo_" + StepSyndrome),
	}
	return out.settle("undo_" + StepSyndrome)
}

// DynamicalMixing applies the cat map to the register (read as two points
// on ℤ₄²) and evolves ρ with the kicked Ising Floquet operator.
func (m *Morphisms) DynamicalMixing(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("%s input: %w", StepMix, err)
	}

	out := State{
		Classical: catMix(s.Classical, m.cfg.CatRounds),
		Quantum:   conjugateBy(m.floquet, s.Quantum),
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag(StepMix),
	}
	return out.settle(StepMix)
}

// UndoDynamicalMixing is the inverse of DynamicalMixing.
func (m *Morphisms) UndoDynamicalMixing(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("undo_%s input: %w", StepMix, err)
	}

	out := State{
		Classical: catUnmix(s.Classical, m.cfg.CatRounds),
		Quantum:   conjugateBy(adjoint(m.floquet), s.Quantum),
		Cloud:     cloneCloud(s.Cloud),
		Tags:      s.withTag("undo_" + StepMix),
	}
	return out.settle("undo_" + StepMix)
}

// AnnulusTransform pushes the cloud through T_a. Bits and ρ are copied.
func (m *Morphisms) AnnulusTransform(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("%s input: %w", StepAnnulus, err)
	}

	out := State{
		Classical: s.Classical,
		Quantum:   cloneC(s.Quantum),
		Cloud:     AnnulusMap(s.Cloud, m.cfg.InnerRadius),
		Tags:      s.withTag(StepAnnulus),
	}
	return out.settle(StepAnnulus)
}

// UndoAnnulusTransform is the inverse of AnnulusTransform.
func (m *Morphisms) UndoAnnulusTransform(s State) (State, error) {
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("undo_%s input: %w", StepAnnulus, err)
	}

	out := State{
		Classical: s.Classical,
		Quantum:   cloneC(s.Quantum),
		Cloud:     AnnulusUnmap(s.Cloud, m.cfg.InnerRadius),
		Tags:      s.withTag("undo_" + StepAnnulus),
	}
	return out.settle("undo_" + StepAnnulus)
}

// Forward runs the four steps from x0 and returns X₀…X₄ with the trace the
// closing step needs.
func (m *Morphisms) Forward(x0 State) ([]State, Trace, error) {
	states := []State{x0}
	var tr Trace

	x1, err := m.CircuitCompilation(x0)
	if err != nil {
		return nil, Trace{}, err
	}
	states = append(states, x1)
	tr.Steps = append(tr.Steps, StepCompile)

	x2, rec, err := m.SyndromeEncoding(x1)
	if err != nil {
		return nil, Trace{}, err
	}
	states = append(states, x2)
	tr.Steps = append(tr.Steps, StepSyndrome)
	tr.Measurement = &rec

	x3, err := m.DynamicalMixing(x2)
	if err != nil {
		return nil, Trace{}, err
	}
	states = append(states, x3)
	tr.Steps = append(tr.Steps, StepMix)

	x4, err := m.AnnulusTransform(x3)
	if err != nil {
		return nil, Trace{}, err
	}
	states = append(states, x4)
	tr.Steps = append(tr.Steps, StepAnnulus)

	return states, tr, nil
}

// Closing maps X₄ back to X₀ by undoing the recorded steps in reverse:
// φ = f₁⁻¹ ∘ f₂⁻¹ ∘ f₃⁻¹ ∘ f₄⁻¹.
func (m *Morphisms) Closing(x4 State, tr Trace) (State, error) {
	s := x4
	var err error

	for i := len(tr.Steps) - 1; i >= 0; i-- {
		switch step := tr.Steps[i]; step {
		case StepAnnulus:
			s, err = m.UndoAnnulusTransform(s)
		case StepMix:
			s, err = m.UndoDynamicalMixing(s)
		case StepSyndrome:
			s, err = m.UndoSyndromeEncoding(s, tr.Measurement)
		case StepCompile:
			s, err = m.UndoCircuitCompilation(s)
		default:
			err = fmt.Errorf("unknown step %q", step)
		}
		if err != nil {
			return State{}, fmt.Errorf("%s: %w", StepClose, err)
		}
	}

	s.Tags = x4.withTag(StepClose)
	return s, nil
}

// ResetClosing discards X₄ and rebuilds the initial state. It closes the
// cycle by fiat rather than by inversion and is kept for comparison only.
func ResetClosing(cloudSize int) State {
	s := InitialState(cloudSize)
	s.Tags = []string{StepClose}
	return s
}
