package mapper

import "errors"

var (
	// ErrIncompleteSkeleton is returned when a raw skeleton is missing joints
	// or holds them out of enumeration order.
	ErrIncompleteSkeleton = errors.New("incomplete skeleton")

	// ErrInvalidOrientation is returned for a zero or non-finite joint orientation.
	ErrInvalidOrientation = errors.New("invalid joint orientation")
)
