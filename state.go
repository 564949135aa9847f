package nogo

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// System dimensions. They are fixed for the whole run.
const (
	NumBits   = 8              // Classical register length
	NumQubits = 3              // Quantum register size
	Dim       = 1 << NumQubits // Hilbert space dimension (8)
)

// Tolerance bounds every floating-point invariant check (Hermiticity, trace,
// positivity, round-trip equality).
const Tolerance = 1e-9

// Bits is the classical register. Every entry is 0 or 1.
type Bits [NumBits]uint8

// String renders the register most-significant-first as it is indexed, e.g. "01101101".
func (b Bits) String() string {
	var sb strings.Builder
	for _, v := range b {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Xor returns b ⊕ o.
func (b Bits) Xor(o Bits) Bits {
	var out Bits
	for i := range b {
		out[i] = b[i] ^ o[i]
	}
	return out
}

// State is one snapshot of the hybrid system: a classical bit register, a
// 3-qubit density matrix and the point cloud the geometric pillar acts on.
//
// Tags records which morphisms produced the state. It is provenance only:
// no proxy reads it.
type State struct {
	Classical Bits
	Quantum   *mat.CDense
	Cloud     []r2.Vec
	Tags      []string
}

// InitialState builds X₀: all-zero bits, the pure state |000⟩⟨000| and a
// uniform disk cloud of cloudSize points.
func InitialState(cloudSize int) State {
	rho := mat.NewCDense(Dim, Dim, nil)
	rho.Set(0, 0, 1)

	return State{
		Quantum: rho,
		Cloud:   UniformDisk(cloudSize),
	}
}

// Clone returns a deep copy. Morphisms never mutate their input.
func (s State) Clone() State {
	out := State{Classical: s.Classical}

	if s.Quantum != nil {
		out.Quantum = cloneC(s.Quantum)
	}
	out.Cloud = cloneCloud(s.Cloud)
	if s.Tags != nil {
		out.Tags = make([]string, len(s.Tags))
		copy(out.Tags, s.Tags)
	}

	return out
}

func cloneCloud(c []r2.Vec) []r2.Vec {
	if c == nil {
		return nil
	}
	out := make([]r2.Vec, len(c))
	copy(out, c)
	return out
}

// withTag returns the tag list extended by name, without aliasing s.Tags.
func (s State) withTag(name string) []string {
	tags := make([]string, 0, len(s.Tags)+1)
	tags = append(tags, s.Tags...)
	return append(tags, name)
}

// Validate checks the state invariants: register sizes, Hermiticity, unit
// trace and positive semidefiniteness within Tolerance.
func (s State) Validate() error {
	for i, b := range s.Classical {
		if b > 1 {
			return fmt.Errorf("bit %d has value %d: %w", i, b, ErrDimension)
		}
	}

	if s.Quantum == nil {
		return fmt.Errorf("missing density matrix: %w", ErrDimension)
	}
	if r, c := s.Quantum.Dims(); r != Dim || c != Dim {
		return fmt.Errorf("density matrix is %dx%d, want %dx%d: %w", r, c, Dim, Dim, ErrDimension)
	}

	if d := hermitianDefect(s.Quantum); d > Tolerance {
		return fmt.Errorf("max |ρ - ρ†| = %.3e: %w", d, ErrNotHermitian)
	}

	tr := ctrace(s.Quantum)
	if math.Abs(real(tr)-1) > Tolerance || math.Abs(imag(tr)) > Tolerance {
		return fmt.Errorf("Tr(ρ) = %v: %w", tr, ErrTrace)
	}

	vals, err := hermitianEigenvalues(s.Quantum)
	if err != nil {
		return err
	}
	if vals[0] < -Tolerance {
		return fmt.Errorf("smallest eigenvalue %.3e: %w", vals[0], ErrNotPSD)
	}

	return nil
}

// settle renormalizes sub-tolerance trace drift and then validates. A
// correction is always logged.
func (s State) settle(step string) (State, error) {
	if s.Quantum != nil {
		tr := ctrace(s.Quantum)
		drift := cmplx.Abs(tr - 1)
		if drift > 0 && drift <= Tolerance {
			cscaleInPlace(s.Quantum, 1/tr)
			slog.Debug("renormalized density matrix", "step", step, "drift", drift)
		}
	}

	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("%s: %w", step, err)
	}

	return s, nil
}

// Comparison holds the element-wise distance between two states.
type Comparison struct {
	BitsEqual     bool
	QuantumMaxAbs float64 // max |ρ_ij - σ_ij|
	CloudMaxDist  float64 // max point displacement
	Fidelity      float64 // Tr(ρσ) / sqrt(Tr(ρ²)Tr(σ²))
}

// Within reports whether the two states agree to tol.
func (c Comparison) Within(tol float64) bool {
	return c.BitsEqual && c.QuantumMaxAbs <= tol && c.CloudMaxDist <= tol
}

// CompareStates measures how far b is from a. A missing or misshapen
// density matrix on either side reads as an infinite distance with zero
// fidelity.
func CompareStates(a, b State) Comparison {
	cmp := Comparison{
		BitsEqual:    a.Classical == b.Classical,
		CloudMaxDist: math.Inf(1),
	}

	if len(a.Cloud) == len(b.Cloud) {
		cmp.CloudMaxDist = 0
		for i := range a.Cloud {
			d := r2.Norm(r2.Sub(a.Cloud[i], b.Cloud[i]))
			cmp.CloudMaxDist = math.Max(cmp.CloudMaxDist, d)
		}
	}

	if a.Quantum == nil || b.Quantum == nil {
		cmp.QuantumMaxAbs = math.Inf(1)
		return cmp
	}
	cmp.QuantumMaxAbs = maxAbsDiff(a.Quantum, b.Quantum)
	if math.IsInf(cmp.QuantumMaxAbs, 1) {
		return cmp
	}

	overlap := real(ctrace(cmul(a.Quantum, b.Quantum)))
	pa := Purity(a.Quantum)
	pb := Purity(b.Quantum)
	if pa > 0 && pb > 0 {
		cmp.Fidelity = overlap / math.Sqrt(pa*pb)
	}

	return cmp
}
