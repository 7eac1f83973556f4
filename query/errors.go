package query

import "errors"

var (
	// ErrNotIterable is returned when iterator-shaped access is requested on a
	// result that is not an iterator.
	ErrNotIterable = errors.New("query execution did not yield an iterable result")
	// ErrUnknownOperation is returned for a descriptor outside the known set.
	ErrUnknownOperation = errors.New("unknown query operation")
	ErrNoCollection     = errors.New("query requires a collection")
	ErrUnknownField     = errors.New("unknown debug field")
)
