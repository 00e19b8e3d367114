package dynamo

import "errors"

// Domain errors for core operations.
var (
	// ErrDegenerateMass indicates a mass that cannot be divided by (zero, negative or NaN).
	ErrDegenerateMass = errors.New("dynamo: degenerate mass (must be > 0)")

	// ErrSingularMatrix indicates a matrix whose determinant is within tolerance of zero.
	ErrSingularMatrix = errors.New("dynamo: singular matrix (not invertible)")
)

// OpError records the operation that failed and why.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
