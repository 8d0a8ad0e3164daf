package bamview

import "errors"

// Sentinel errors for the viewer core. Callers test with errors.Is.
var (
	// ErrInvalidArgument covers caller mistakes: a zoom step of 0, an empty
	// bin count, a reversed span.
	ErrInvalidArgument = errors.New("bamview: invalid argument")
	// ErrOutOfRange is returned for coordinate or lane queries outside the
	// current region where the contract does not permit a None result.
	ErrOutOfRange = errors.New("bamview: out of range")
	// ErrState marks an Alignments value that failed its publish-time
	// invariants. This is a bug, not user input.
	ErrState = errors.New("bamview: inconsistent state")
	// ErrParse covers textual region, filter and sort descriptions that do
	// not parse.
	ErrParse = errors.New("bamview: parse error")
)
