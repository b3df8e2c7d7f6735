package core

import "errors"

// Sentinel errors returned by grid and fleet operations. Callers match
// them with errors.Is.
var (
	ErrOutOfBounds      = errors.New("coordinates out of bounds")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrNoPathFound      = errors.New("no path found")
	ErrCapacityExceeded = errors.New("robot capacity exceeded")
)
