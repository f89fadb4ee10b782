package models

import "errors"

var (
	// ErrIndexOutOfRange is returned when an exercise or set index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownWorkout is returned when a workout key has no template.
	ErrUnknownWorkout = errors.New("unknown workout")
	// ErrInvalidValue is returned for a field value that fails validation.
	ErrInvalidValue = errors.New("invalid value")
)
