package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for particle operations.
var (
	// ErrInvalidDuration indicates a non-positive or NaN integration duration.
	ErrInvalidDuration = errors.New("dynamo: duration must be positive")

	// ErrZeroMass indicates an attempt to set a mass of exactly zero.
	ErrZeroMass = errors.New("dynamo: mass must be non-zero")

	// ErrInvalidMass indicates a negative, NaN or infinite mass.
	ErrInvalidMass = errors.New("dynamo: mass must be a positive finite number")

	// ErrInvalidState indicates a particle whose state contains NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStaleHandle indicates a handle whose slot was freed or never existed.
	ErrStaleHandle = errors.New("dynamo: stale or unknown handle")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step     int
	Time     float64
	Particle ParticleID
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) particle %s: %v", e.Step, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
