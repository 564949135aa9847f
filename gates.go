package nogo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// qubitBit returns the value of qubit q in basis index i. Qubit 0 is the
// most significant bit.
func qubitBit(i, q int) int {
	return (i >> (NumQubits - 1 - q)) & 1
}

// sameOutside reports whether basis indices i and j agree on every qubit
// except q.
func sameOutside(i, j, q int) bool {
	mask := 1 << (NumQubits - 1 - q)
	return i&^mask == j&^mask
}

// hadamard returns H acting on qubit q.
func hadamard(q int) *mat.CDense {
	s := complex(1/math.Sqrt2, 0)
	h := mat.NewCDense(Dim, Dim, nil)
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if !sameOutside(i, j, q) {
				continue
			}
			if qubitBit(i, q) == 1 && qubitBit(j, q) == 1 {
				h.Set(i, j, -s)
			} else {
				h.Set(i, j, s)
			}
		}
	}
	return h
}

// cnot returns the controlled-NOT with the given control and target.
func cnot(control, target int) *mat.CDense {
	flip := 1 << (NumQubits - 1 - target)
	m := mat.NewCDense(Dim, Dim, nil)
	for j := 0; j < Dim; j++ {
		i := j
		if qubitBit(j, control) == 1 {
			i ^= flip
		}
		m.Set(i, j, 1)
	}
	return m
}

// projector returns |k⟩⟨k| on qubit q, identity elsewhere.
func projector(q, k int) *mat.CDense {
	p := mat.NewCDense(Dim, Dim, nil)
	for i := 0; i < Dim; i++ {
		if qubitBit(i, q) == k {
			p.Set(i, i, 1)
		}
	}
	return p
}

// isingZZ returns J·Σ ZᵢZᵢ₊₁ on the open chain. It is diagonal.
func isingZZ(j float64) *mat.SymDense {
	h := mat.NewSymDense(Dim, nil)
	for i := 0; i < Dim; i++ {
		var e float64
		for q := 0; q < NumQubits-1; q++ {
			zq := 1 - 2*qubitBit(i, q)
			zn := 1 - 2*qubitBit(i, q+1)
			e += float64(zq * zn)
		}
		h.SetSym(i, i, j*e)
	}
	return h
}

// transverseX returns h·Σ Xᵢ.
func transverseX(h float64) *mat.SymDense {
	m := mat.NewSymDense(Dim, nil)
	for i := 0; i < Dim; i++ {
		for q := 0; q < NumQubits; q++ {
			j := i ^ (1 << (NumQubits - 1 - q))
			if j > i {
				m.SetSym(i, j, m.At(i, j)+h)
			}
		}
	}
	return m
}

// marginal returns the 2×2 reduced density matrix of qubit q.
func marginal(rho *mat.CDense, q int) *mat.CDense {
	r := mat.NewCDense(2, 2, nil)
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			if !sameOutside(i, j, q) {
				continue
			}
			a, b := qubitBit(i, q), qubitBit(j, q)
			r.Set(a, b, r.At(a, b)+rho.At(i, j))
		}
	}
	return r
}

// linearEntropy returns 2(1 - Tr ρ_q²) for qubit q: 0 for a product
// qubit, 1 for a maximally mixed one.
func linearEntropy(rho *mat.CDense, q int) float64 {
	return 2 * (1 - Purity(marginal(rho, q)))
}
