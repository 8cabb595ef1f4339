package factor

import "errors"

var (
	// ErrEmptyGrid is returned when no canonical grid was supplied.
	ErrEmptyGrid = errors.New("canonical grid is empty")
	// ErrGridOrder is returned when grid rows are not strictly increasing
	// inside a group or a group is split into several runs.
	ErrGridOrder = errors.New("canonical grid is not ordered")
	// ErrGroupNotInGrid is returned when events belong to an
	// (instrument, date) group the grid does not cover.
	ErrGroupNotInGrid = errors.New("events reference a group missing from the grid")
	// ErrMisaligned is returned when two series do not share a grid.
	ErrMisaligned = errors.New("series are not aligned to the same grid")
	// ErrUnknownFactor is returned for identifiers missing from the catalog.
	ErrUnknownFactor = errors.New("unknown factor")
	// ErrInvalidParams is returned for non-positive window or period sizes.
	ErrInvalidParams = errors.New("invalid factor parameters")
)
