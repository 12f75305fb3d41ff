package core

import "errors"

var (
	// ErrDegenerateRay is returned for rays with a zero-length or non-finite direction
	ErrDegenerateRay = errors.New("degenerate ray")

	// ErrDegenerateGeometry is returned for primitives that cannot be intersected
	// without dividing by zero (e.g. a sphere with radius <= 0)
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvalidConfig is returned for camera or render settings out of range
	ErrInvalidConfig = errors.New("invalid configuration")
)
