package nogo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Pillar names one of the four complexity measures.
type Pillar int

const (
	Alg Pillar = iota
	Info
	Dyn
	Geom
)

// Pillars lists every pillar in reporting order.
var Pillars = []Pillar{Alg, Info, Dyn, Geom}

func (p Pillar) String() string {
	switch p {
	case Alg:
		return "C_alg"
	case Info:
		return "C_info"
	case Dyn:
		return "C_dyn"
	case Geom:
		return "C_geom"
	}
	return fmt.Sprintf("Pillar(%d)", int(p))
}

// Profile holds the four proxy values of one state.
type Profile [4]float64

// Get returns the value for p.
func (pr Profile) Get(p Pillar) float64 { return pr[p] }

// Sub returns pr - o pillar-wise.
func (pr Profile) Sub(o Profile) Profile {
	var d Profile
	for i := range pr {
		d[i] = pr[i] - o[i]
	}
	return d
}

// ComputeProfile evaluates all four proxies. Only Classical, Quantum and
// Cloud are read; Tags never influence a value.
func ComputeProfile(s State, cfg Config) (Profile, error) {
	info, err := CInfo(s)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", Info, err)
	}
	dyn, err := CDyn(s)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", Dyn, err)
	}

	var pr Profile
	pr[Alg] = CAlg(s)
	pr[Info] = info
	pr[Dyn] = dyn
	pr[Geom] = CGeom(s, cfg.InnerRadius, cfg.VoidAlpha)
	return pr, nil
}

// CAlg mixes the Lempel-Ziv complexity of the register with an estimate of
// the entangling gate count: the summed linear entropy of the single-qubit
// marginals, which is 0 for a product state and 3 when every qubit is
// maximally entangled with the rest.
func CAlg(s State) float64 {
	var gates float64
	for q := 0; q < NumQubits; q++ {
		gates += linearEntropy(s.Quantum, q)
	}
	return 0.4*float64(LZ76(s.Classical[:]))/NumBits + 0.6*gates/NumQubits
}

// CInfo combines parity balance of the register, classical-quantum
// agreement on bit 0 / qubit 0, mixedness 1-Tr ρ² and normalized von
// Neumann entropy.
func CInfo(s State) (float64, error) {
	var parity float64
	for i := 0; i < NumBits; i += 2 {
		parity += float64(s.Classical[i] ^ s.Classical[i+1])
	}
	parity /= NumBits / 2
	balance := 1 - 2*math.Abs(parity-0.5)

	var agree float64
	for i := 0; i < Dim; i++ {
		if qubitBit(i, 0) == int(s.Classical[0]) {
			agree += real(s.Quantum.At(i, i))
		}
	}
	correlation := math.Abs(2*agree - 1)

	entropy, err := VonNeumannEntropy(s.Quantum)
	if err != nil {
		return 0, err
	}

	return 0.2*balance +
		0.3*correlation +
		0.25*(1-Purity(s.Quantum)) +
		0.25*entropy/NumQubits, nil
}

// CDyn weighs the bit-mixing score of the register against the spread of
// ρ's nonzero spectrum (coefficient of variation, capped at 1).
func CDyn(s State) (float64, error) {
	vals, err := hermitianEigenvalues(s.Quantum)
	if err != nil {
		return 0, err
	}

	nonzero := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 1e-12 {
			nonzero = append(nonzero, v)
		}
	}

	var spread float64
	if mean, std := stat.PopMeanStdDev(nonzero, nil); mean > 0 {
		spread = math.Min(1, std/mean)
	}

	return 0.7*BitMixing(s.Classical) + 0.3*spread, nil
}

// CGeom scores the cloud for a central void and for holes.
func CGeom(s State, a, alpha float64) float64 {
	void := CentralVoidScore(s.Cloud, a, alpha)
	holes := math.Min(1, float64(Betti1(s.Cloud)))
	return 0.5*void + 0.5*holes
}

// LZ76 returns the Lempel-Ziv (1976) complexity of a binary sequence using
// the Kaspar-Schuster scan: the number of distinct phrases met while
// reading left to right.
func LZ76(s []uint8) int {
	n := len(s)
	if n <= 1 {
		return n
	}

	c, l, i, k, kmax := 1, 1, 0, 1, 1
	for {
		if s[i+k-1] == s[l+k-1] {
			k++
			if l+k > n {
				c++
				break
			}
			continue
		}

		kmax = max(k, kmax)
		i++
		if i == l {
			c++
			l += kmax
			if l+1 > n {
				break
			}
			i, k, kmax = 0, 1, 1
		} else {
			k = 1
		}
	}
	return c
}

// reference patterns BitMixing measures distance from.
var orderedPatterns = func() [4]Bits {
	var zeros, ones, alt01, alt10 Bits
	for i := range zeros {
		ones[i] = 1
		alt01[i] = uint8(i % 2)
		alt10[i] = uint8((i + 1) % 2)
	}
	return [4]Bits{zeros, ones, alt01, alt10}
}()

// BitMixing scores how far a register is from ordered: 0.3·transition rate
// + 0.4·normalized Hamming distance to the nearest ordered pattern + 0.3·
// normalized entropy of its 2-bit blocks.
func BitMixing(b Bits) float64 {
	transitions := 0
	for i := 0; i+1 < NumBits; i++ {
		if b[i] != b[i+1] {
			transitions++
		}
	}

	dist := make([]float64, len(orderedPatterns))
	for p, pat := range orderedPatterns {
		for i := range b {
			if b[i] != pat[i] {
				dist[p]++
			}
		}
	}
	nearest := floats.Min(dist) / NumBits

	var counts [4]float64
	for i := 0; i < NumBits; i += 2 {
		counts[2*b[i]+b[i+1]]++
	}
	floats.Scale(1/floats.Sum(counts[:]), counts[:])
	blockEntropy := stat.Entropy(counts[:]) / math.Ln2

	return 0.3*float64(transitions)/(NumBits-1) + 0.4*nearest + 0.3*blockEntropy/2
}
