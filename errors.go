package gridastar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate is returned when a coordinate lies outside the grid.
	ErrInvalidCoordinate = errors.New("coordinate out of bounds")
	// ErrBlockedEndpoint is returned when start or goal is placed on a wall.
	ErrBlockedEndpoint = errors.New("endpoint is a wall")
	// ErrInvalidEndpoints is returned when a search starts with start or goal unset or invalid.
	ErrInvalidEndpoints = errors.New("start and goal must be set on walkable cells")
	// ErrNoPathFound is returned when the frontier is exhausted before reaching the goal.
	ErrNoPathFound = errors.New("no path found")
	// ErrInvalidDimensions is returned by NewGrid for non-positive sizes.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	// ErrStaleRun is returned when a search starts on a grid that still holds a previous run.
	ErrStaleRun = errors.New("grid holds a previous run; call Reset first")
)

// CoordinateError records a rejected grid mutation.
type CoordinateError struct {
	Op  string
	Pos Coordinate
	Err error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Pos, e.Err)
}

func (e *CoordinateError) Unwrap() error { return e.Err }
