package nogo

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// gonum's CDense stores complex matrices but has no arithmetic or
// factorizations, so the few operations the pipeline needs live here.

func cloneC(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	out.Copy(a)
	return out
}

func identityC(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// cmul returns a·b.
func cmul(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("nogo: cmul shape %dx%d · %dx%d", ar, ac, br, bc))
	}

	out := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// adjoint returns a†.
func adjoint(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(j, i, cmplx.Conj(a.At(i, j)))
		}
	}
	return out
}

// conjugateBy returns u·ρ·u†.
func conjugateBy(u, rho *mat.CDense) *mat.CDense {
	return cmul(cmul(u, rho), adjoint(u))
}

// caxpy returns α·a + β·b.
func caxpy(alpha complex128, a *mat.CDense, beta complex128, b *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, alpha*a.At(i, j)+beta*b.At(i, j))
		}
	}
	return out
}

func cscaleInPlace(a *mat.CDense, f complex128) {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.Set(i, j, f*a.At(i, j))
		}
	}
}

func ctrace(a *mat.CDense) complex128 {
	r, _ := a.Dims()
	var tr complex128
	for i := 0; i < r; i++ {
		tr += a.At(i, i)
	}
	return tr
}

func maxAbsDiff(a, b *mat.CDense) float64 {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return math.Inf(1)
	}

	var m float64
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			m = math.Max(m, cmplx.Abs(a.At(i, j)-b.At(i, j)))
		}
	}
	return m
}

func hermitianDefect(a *mat.CDense) float64 {
	return maxAbsDiff(a, adjoint(a))
}

// Purity returns Tr(ρ²).
func Purity(rho *mat.CDense) float64 {
	r, _ := rho.Dims()
	var p float64
	// Tr(ρ²) = Σ_ij ρ_ij ρ_ji = Σ_ij |ρ_ij|² for Hermitian ρ.
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			p += real(rho.At(i, j) * rho.At(j, i))
		}
	}
	return p
}

// VonNeumannEntropy returns S(ρ) = -Tr(ρ log₂ ρ) in bits. Eigenvalues
// below 1e-12 are treated as zero.
func VonNeumannEntropy(rho *mat.CDense) (float64, error) {
	vals, err := hermitianEigenvalues(rho)
	if err != nil {
		return 0, err
	}

	p := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 1e-12 {
			p = append(p, v)
		}
	}
	return stat.Entropy(p) / math.Ln2, nil
}

// hermitianEigenvalues returns the eigenvalues of a Hermitian matrix in
// ascending order.
//
// H = A + iB is embedded as the real symmetric matrix [[A, -B], [B, A]],
// whose spectrum is that of H with every eigenvalue doubled.
func hermitianEigenvalues(h *mat.CDense) ([]float64, error) {
	n, _ := h.Dims()
	emb := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			emb.SetSym(i, j, real(v))
			emb.SetSym(i+n, j+n, real(v))
			emb.SetSym(i, j+n, -imag(v))
			emb.SetSym(j, i+n, imag(v))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(emb, false); !ok {
		return nil, fmt.Errorf("hermitian %dx%d: %w", n, n, ErrEigen)
	}

	doubled := eig.Values(nil)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = (doubled[2*i] + doubled[2*i+1]) / 2
	}
	return vals, nil
}

// evolution returns exp(-i·H·t) for a real symmetric Hamiltonian H, built
// from its eigendecomposition H = V·diag(λ)·Vᵀ.
func evolution(h *mat.SymDense, t float64) (*mat.CDense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(h, true); !ok {
		return nil, fmt.Errorf("hamiltonian: %w", ErrEigen)
	}

	lambda := eig.Values(nil)
	var v mat.Dense
	eig.VectorsTo(&v)

	n := len(lambda)
	u := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				phase := cmplx.Exp(complex(0, -lambda[k]*t))
				sum += complex(v.At(i, k)*v.At(j, k), 0) * phase
			}
			u.Set(i, j, sum)
		}
	}
	return u, nil
}

// cpow returns u^k for k ≥ 0.
func cpow(u *mat.CDense, k int) *mat.CDense {
	n, _ := u.Dims()
	out := identityC(n)
	for i := 0; i < k; i++ {
		out = cmul(out, u)
	}
	return out
}
