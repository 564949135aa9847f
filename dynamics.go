package nogo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TorusPoint is a point on the discrete torus ℤ_m².
type TorusPoint [2]int

// catMatrix is Arnold's cat map A = [[2,1],[1,1]] and catInverse is A⁻¹
// reduced mod 4 (A⁻¹ = [[1,-1],[-1,2]]).
var (
	catMatrix  = [2][2]int{{2, 1}, {1, 1}}
	catInverse = [2][2]int{{1, 3}, {3, 2}}
)

// catModulus is the side of the torus the classical register is folded onto:
// bit pairs are read as base-4 digits.
const catModulus = 4

func applyMod(m [2][2]int, p TorusPoint, mod int) TorusPoint {
	x := (m[0][0]*p[0] + m[0][1]*p[1]) % mod
	y := (m[1][0]*p[0] + m[1][1]*p[1]) % mod
	return TorusPoint{(x + mod) % mod, (y + mod) % mod}
}

// CatStep applies the cat map once on ℤ_mod².
func CatStep(p TorusPoint, mod int) TorusPoint {
	return applyMod(catMatrix, p, mod)
}

// IterateCat records the orbit of p for the given number of steps,
// excluding p itself.
func IterateCat(p TorusPoint, mod, steps int) []TorusPoint {
	orbit := make([]TorusPoint, 0, steps)
	for i := 0; i < steps; i++ {
		p = CatStep(p, mod)
		orbit = append(orbit, p)
	}
	return orbit
}

// CatPeriod returns the smallest n ≥ 1 with Aⁿp = p on ℤ_mod², or -1 when no
// period up to maxPeriod exists.
func CatPeriod(p TorusPoint, mod, maxPeriod int) int {
	start := TorusPoint{((p[0] % mod) + mod) % mod, ((p[1] % mod) + mod) % mod}
	for n, q := range IterateCat(start, mod, maxPeriod) {
		if q == start {
			return n + 1
		}
	}
	return -1
}

// CatLyapunov returns the Lyapunov exponent of the continuous cat map, the
// log of the spectral radius of A: ln((3+√5)/2) ≈ 0.9624.
func CatLyapunov() (float64, error) {
	a := mat.NewSymDense(2, []float64{
		float64(catMatrix[0][0]), float64(catMatrix[0][1]),
		float64(catMatrix[1][0]), float64(catMatrix[1][1]),
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(a, false); !ok {
		return 0, fmt.Errorf("cat map: %w", ErrEigen)
	}

	var radius float64
	for _, v := range eig.Values(nil) {
		radius = math.Max(radius, math.Abs(v))
	}
	return math.Log(radius), nil
}

// bitsToTorus reads the register as four base-4 digits dᵢ = 2b₂ᵢ + b₂ᵢ₊₁
// and pairs them into two torus points (d₀,d₁) and (d₂,d₃).
func bitsToTorus(b Bits) [2]TorusPoint {
	var d [4]int
	for i := range d {
		d[i] = 2*int(b[2*i]) + int(b[2*i+1])
	}
	return [2]TorusPoint{{d[0], d[1]}, {d[2], d[3]}}
}

func torusToBits(pts [2]TorusPoint) Bits {
	var b Bits
	d := [4]int{pts[0][0], pts[0][1], pts[1][0], pts[1][1]}
	for i, v := range d {
		b[2*i] = uint8(v >> 1)
		b[2*i+1] = uint8(v & 1)
	}
	return b
}

// catMix applies the cat map rounds times to both torus points of b.
func catMix(b Bits, rounds int) Bits {
	return catApply(catMatrix, b, rounds)
}

// catUnmix undoes catMix.
func catUnmix(b Bits, rounds int) Bits {
	return catApply(catInverse, b, rounds)
}

func catApply(m [2][2]int, b Bits, rounds int) Bits {
	pts := bitsToTorus(b)
	for r := 0; r < rounds; r++ {
		for i := range pts {
			pts[i] = applyMod(m, pts[i], catModulus)
		}
	}
	return torusToBits(pts)
}

// KickedIsing returns the Floquet operator of the kicked transverse-field
// Ising chain raised to kicks:
//
//	U_F = exp(-i·H_zz·τ) · exp(-i·H_x·τ),  H_zz = J Σ ZᵢZᵢ₊₁,  H_x = h Σ Xᵢ
func KickedIsing(j, h, tau float64, kicks int) (*mat.CDense, error) {
	uzz, err := evolution(isingZZ(j), tau)
	if err != nil {
		return nil, fmt.Errorf("zz evolution: %w", err)
	}
	ux, err := evolution(transverseX(h), tau)
	if err != nil {
		return nil, fmt.Errorf("x evolution: %w", err)
	}

	return cpow(cmul(uzz, ux), kicks), nil
}
