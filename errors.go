package nogo

import "errors"

// Invariant violations. Morphisms and the runner wrap these with context;
// callers match them with errors.Is.
var (
	ErrDimension     = errors.New("dimension mismatch")
	ErrNotHermitian  = errors.New("density matrix is not Hermitian")
	ErrTrace         = errors.New("density matrix trace is not 1")
	ErrNotPSD        = errors.New("density matrix is not positive semidefinite")
	ErrEigen         = errors.New("eigendecomposition failed")
	ErrMissingRecord = errors.New("trace has no measurement record")
	ErrRoundTrip     = errors.New("closing step did not return to the initial state")
	ErrOracle        = errors.New("oracle threshold not met")
	ErrConfig        = errors.New("invalid configuration")
)
