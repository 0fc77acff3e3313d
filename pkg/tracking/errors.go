package tracking

import "errors"

var (
	// ErrNoActiveBody is returned when a skeleton is requested with no active body.
	ErrNoActiveBody = errors.New("no active body")

	// ErrBodyNotFound is returned when the requested body is not in the latest frame.
	ErrBodyNotFound = errors.New("body not in latest frame")
)
