package nogo

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// goldenAngle is π(3-√5), the phyllotaxis divergence angle.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// UniformDisk returns n points spread evenly over the unit disk on a Vogel
// spiral: rᵢ = √((i+½)/n), θᵢ = i·goldenAngle. The layout is deterministic.
func UniformDisk(n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		r := math.Sqrt((float64(i) + 0.5) / float64(n))
		theta := float64(i) * goldenAngle
		pts[i] = r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pts
}

// SampleDisk draws n points uniformly from the unit disk.
func SampleDisk(n int, rng *rand.Rand) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		r := math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pts[i] = r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return pts
}

// AnnulusRadius is the radial part of T_a: √(a² + (1-a²)r²).
func AnnulusRadius(r, a float64) float64 {
	return math.Sqrt(a*a + (1-a*a)*r*r)
}

// AnnulusInverseRadius undoes AnnulusRadius for r' in [a, 1].
func AnnulusInverseRadius(rp, a float64) float64 {
	v := (rp*rp - a*a) / (1 - a*a)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// AnnulusJacobian returns r'·dr'/dr = (1-a²)·r, the radial area element of
// T_a. Integrated over the disk it gives π(1-a²), the annulus area, so the
// uniform disk measure maps onto the uniform annulus measure.
func AnnulusJacobian(r, a float64) float64 {
	return (1 - a*a) * r
}

// AnnulusMap applies T_a to every point, keeping the angle. The origin has
// no angle and is sent to (a, 0).
func AnnulusMap(points []r2.Vec, a float64) []r2.Vec {
	out := make([]r2.Vec, len(points))
	for i, p := range points {
		r := r2.Norm(p)
		if r == 0 {
			out[i] = r2.Vec{X: a}
			continue
		}
		out[i] = r2.Scale(AnnulusRadius(r, a)/r, p)
	}
	return out
}

// AnnulusUnmap is the inverse of AnnulusMap on [a, 1] radii.
func AnnulusUnmap(points []r2.Vec, a float64) []r2.Vec {
	out := make([]r2.Vec, len(points))
	for i, p := range points {
		rp := r2.Norm(p)
		if rp == 0 {
			out[i] = p
			continue
		}
		out[i] = r2.Scale(AnnulusInverseRadius(rp, a)/rp, p)
	}
	return out
}

// CentralVoidScore compares how many points sit inside radius r₀ = alpha·a
// with how many a uniform unit-disk cloud would put there (r₀²). It is 0
// for a filled disk and 1 when the centre is empty.
func CentralVoidScore(points []r2.Vec, a, alpha float64) float64 {
	if len(points) == 0 {
		return 0
	}

	r0 := alpha * a
	expected := r0 * r0
	if expected == 0 {
		return 0
	}

	inside := 0
	for _, p := range points {
		if r2.Norm2(p) <= expected {
			inside++
		}
	}
	observed := float64(inside) / float64(len(points))

	return clamp01((expected - observed) / expected)
}

// pointsPerCell is the expected occupancy of a grid cell under a uniform
// unit-disk cloud. At 30 an interior cell is empty with probability e⁻³⁰.
const pointsPerCell = 30

// gridSide is the occupancy grid resolution used by Betti1: the disk covers
// π·side²/4 cells, each expecting pointsPerCell points.
func gridSide(n int) int {
	return max(4, int(math.Sqrt(math.Pi*float64(n)/(4*pointsPerCell))))
}

// Betti1 estimates the number of holes in the cloud: points are binned on
// an occupancy grid over [-1,1]² and every 4-connected region of empty
// cells that does not touch the grid border counts as one hole.
func Betti1(points []r2.Vec) int {
	side := gridSide(len(points))
	occupied := make([][]bool, side)
	for i := range occupied {
		occupied[i] = make([]bool, side)
	}

	cell := func(v float64) int {
		return min(side-1, max(0, int((v+1)/2*float64(side))))
	}
	for _, p := range points {
		occupied[cell(p.X)][cell(p.Y)] = true
	}

	seen := make([][]bool, side)
	for i := range seen {
		seen[i] = make([]bool, side)
	}

	holes := 0
	stack := make([][2]int, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			if occupied[i][j] || seen[i][j] {
				continue
			}

			seen[i][j] = true
			stack = append(stack[:0], [2]int{i, j})
			border := false
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if c[0] == 0 || c[0] == side-1 || c[1] == 0 || c[1] == side-1 {
					border = true
				}
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					ni, nj := c[0]+d[0], c[1]+d[1]
					if ni < 0 || ni >= side || nj < 0 || nj >= side {
						continue
					}
					if occupied[ni][nj] || seen[ni][nj] {
						continue
					}
					seen[ni][nj] = true
					stack = append(stack, [2]int{ni, nj})
				}
			}

			if !border {
				holes++
			}
		}
	}

	return holes
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
