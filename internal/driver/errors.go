package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrDiverged indicates a body state became NaN or infinite after a tick.
	ErrDiverged = errors.New("driver: simulation diverged (NaN or Inf detected)")

	ErrDuplicateName = errors.New("driver: duplicate entity name")
	ErrEmptyName     = errors.New("driver: entity name is empty")
	ErrUnknownEntity = errors.New("driver: unknown entity")
	ErrInvalidRun    = errors.New("driver: invalid run configuration")
)

// TickError wraps a failure inside Run with the tick it happened on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%g s): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
