package dynamo

import "errors"

// Domain errors for model construction and stepping.
var (
	// ErrInvalidParameter indicates a non-positive mass, length or
	// gravity, or a negative damping coefficient.
	ErrInvalidParameter = errors.New("dynamo: parameter out of valid range")

	// ErrSegmentCount indicates a chain segment count outside [2, 10].
	ErrSegmentCount = errors.New("dynamo: segment count must be in [2, 10]")

	// ErrStateTooLarge indicates a state vector longer than MaxStateLen.
	ErrStateTooLarge = errors.New("dynamo: state vector exceeds maximum supported length")

	// ErrDiverged indicates NaN or Inf propagated into the state vector.
	ErrDiverged = errors.New("dynamo: state diverged (NaN or Inf)")
)
