package nogo

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeasurementRecord is what a projective measurement leaves behind: the
// outcome, its Born probability and the part of ρ the collapse discarded.
// With the record the pre-measurement state is recovered exactly as
// ρ = Probability·ρₖ + Residual.
type MeasurementRecord struct {
	Qubit       int
	Outcome     int
	Probability float64
	Residual    *mat.CDense
}

// Measure performs a Z-basis measurement of qubit on ρ. The outcome is
// drawn from src with the Born probabilities Tr(Pₖρ). It returns the
// normalized post-measurement state PₖρPₖ/pₖ.
func Measure(rho *mat.CDense, qubit int, src rand.Source) (*mat.CDense, MeasurementRecord, error) {
	if qubit < 0 || qubit >= NumQubits {
		return nil, MeasurementRecord{}, fmt.Errorf("qubit %d: %w", qubit, ErrDimension)
	}

	p1 := real(ctrace(cmul(projector(qubit, 1), rho)))
	born := distuv.Bernoulli{P: clamp01(p1), Src: src}
	k := int(born.Rand())

	proj := projector(qubit, k)
	kept := cmul(cmul(proj, rho), proj)
	pk := real(ctrace(kept))
	if pk <= 0 {
		return nil, MeasurementRecord{}, fmt.Errorf("outcome %d drawn with probability %.3e: %w", k, pk, ErrTrace)
	}

	rec := MeasurementRecord{
		Qubit:       qubit,
		Outcome:     k,
		Probability: pk,
		Residual:    caxpy(1, rho, -1, kept),
	}

	collapsed := cloneC(kept)
	cscaleInPlace(collapsed, complex(1/pk, 0))
	return collapsed, rec, nil
}

// Unmeasure rebuilds the pre-measurement state from a collapsed state and
// its record.
func Unmeasure(collapsed *mat.CDense, rec MeasurementRecord) (*mat.CDense, error) {
	if rec.Residual == nil {
		return nil, ErrMissingRecord
	}
	return caxpy(complex(rec.Probability, 0), collapsed, 1, rec.Residual), nil
}

// Depolarize returns (1-s)ρ + s·I/Dim.
func Depolarize(rho *mat.CDense, s float64) *mat.CDense {
	return caxpy(complex(1-s, 0), rho, complex(s, 0), maximallyMixed())
}

// Repolarize inverts Depolarize for s < 1.
func Repolarize(rho *mat.CDense, s float64) *mat.CDense {
	return caxpy(complex(1/(1-s), 0), rho, complex(-s/(1-s), 0), maximallyMixed())
}

func maximallyMixed() *mat.CDense {
	m := identityC(Dim)
	cscaleInPlace(m, complex(1.0/Dim, 0))
	return m
}
