package qmc5883

import "errors"

// Error taxonomy for the driver core. Transport failures are returned
// verbatim and never wrapped in one of these.
var (
	// ErrTimeout means the data-ready flag never appeared within the
	// poll bound.
	ErrTimeout = errors.New("qmc5883: timed out waiting for data ready")

	// ErrInvalidArgument means a requested physical value has no exact
	// match in the variant's lookup tables.
	ErrInvalidArgument = errors.New("qmc5883: no matching table entry")

	// ErrInvalidState means a decoded register field indexes outside
	// the variant's table bounds, which points at a hardware or
	// protocol mismatch.
	ErrInvalidState = errors.New("qmc5883: register field outside table bounds")
)
