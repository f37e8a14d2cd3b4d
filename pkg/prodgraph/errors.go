package prodgraph

import "errors"

// Sentinel errors for aggregate computation. A contribution resolving to
// nil where a real value is required is treated identically to a
// computation failure, never silently dropped.
var (
	// ErrNilCollection indicates a bulk contribution resolved to a nil
	// collection.
	ErrNilCollection = errors.New("nil collection contributed to aggregate binding")

	// ErrNilElement indicates a contribution resolved to a nil element.
	ErrNilElement = errors.New("nil element contributed to aggregate binding")
)
