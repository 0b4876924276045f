package gravity

import "errors"

var (
	// ErrInvalidMass indicates a negative, NaN or infinite mass.
	ErrInvalidMass = errors.New("gravity: mass must be finite and non-negative")

	// ErrNonFinite indicates a NaN or infinite position or velocity component.
	ErrNonFinite = errors.New("gravity: non-finite position or velocity")

	// ErrInvalidTimestep indicates a tick with dt <= 0 or a non-finite dt.
	ErrInvalidTimestep = errors.New("gravity: timestep must be finite and positive")

	// ErrInvalidParams indicates a Params value outside its valid range.
	ErrInvalidParams = errors.New("gravity: invalid parameters")

	// ErrUnknownBody indicates a handle that was never issued or has been released.
	ErrUnknownBody = errors.New("gravity: unknown or stale body handle")
)
