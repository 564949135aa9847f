// Package nogo runs a five-step cycle over a hybrid classical/quantum state
// and shows that no single complexity scalar can be monotone under every
// step and invariant under the step that closes the cycle.
//
// # State
//
// A State carries an 8-bit register, a 3-qubit density matrix (8×8,
// Hermitian, unit trace, positive semidefinite) and a 2D point cloud.
// Tags record provenance and are never read by a proxy.
//
// # The cycle
//
//	X₀ ──f₁──▶ X₁ ──f₂──▶ X₂ ──f₃──▶ X₃ ──f₄──▶ X₄ ──φ──▶ X₀'
//
//   - f₁ circuit compilation: LFSR keystream on the bits, GHZ circuit on ρ
//   - f₂ syndrome encoding: block parities, Born-rule measurement of qubit 0,
//     depolarizing noise
//   - f₃ dynamical mixing: cat map on the bits, kicked Ising evolution on ρ
//   - f₄ annulus transform: T_a(r,θ) = (√(a²+(1-a²)r²), θ) on the cloud
//   - φ closing: f₁⁻¹∘f₂⁻¹∘f₃⁻¹∘f₄⁻¹, replaying the measurement record
//
// # Proxies
//
// Four pure functions of the state content score its algorithmic,
// informational, dynamical and geometric complexity. Each step fᵢ is
// expected to raise its own pillar by a fixed threshold; RunOracles checks
// this and the round trip.
//
// # The argument
//
// A scalar S monotone under every step satisfies S(X₄) ≥ S(X₀) + Σδ. If S
// is also invariant under φ then S(X₄) = S(X₀), so 0 ≥ Σδ. RunCycle measures
// Σδ > 0 for the construction, which refutes S.
//
// # Quick Start
//
//	cfg := nogo.DefaultConfig()
//
//	report, err := nogo.RunOracles(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := report.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
//	cycle, err := nogo.RunCycle(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cycle.WriteTo(os.Stdout)
//
// # Testing
//
// The Assert helpers mirror the checks for use in tests:
//
//	func TestCycle(t *testing.T) {
//	    report, _ := nogo.RunOracles(nogo.DefaultConfig())
//	    nogo.AssertOracles(t, report)
//	}
package nogo
