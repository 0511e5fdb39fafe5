package apportion

import "errors"

var (
	// ErrInvalidConfiguration is returned when the seat targets cannot produce a
	// valid allocation: no entities, negative seat counts, or a total that does
	// not cover every entity's base seats.
	ErrInvalidConfiguration = errors.New("total seats must cover the base seats of every entity")
	// ErrInvalidPopulations is returned when the population series is missing or
	// contains a negative value.
	ErrInvalidPopulations = errors.New("populations must be non-negative")
	// ErrDegenerateInput is returned when a seat remains to be awarded but no
	// entity has a strictly positive priority, so no winner can be chosen.
	ErrDegenerateInput = errors.New("no entity has a positive priority for the next seat")
	// ErrLengthMismatch is returned when a population series and a seat series
	// of different lengths are combined.
	ErrLengthMismatch = errors.New("populations and seats must have the same length")
)
