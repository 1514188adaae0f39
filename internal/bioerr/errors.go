// Package bioerr defines the error taxonomy shared by the alignment engine.
//
// Engine operations wrap one of these sentinels with context, so callers
// classify failures with errors.Is rather than by message.
package bioerr

import "errors"

// Sentinel errors for alignment and CIGAR operations.
var (
	// ErrEmptyInput is returned for a zero-length sequence or an empty
	// collection where at least one element is required.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidScoring is returned for a malformed or unrecognized scoring
	// configuration, including unknown matrix and mode names.
	ErrInvalidScoring = errors.New("invalid scoring")

	// ErrInvalidBandwidth is returned when a band is non-positive or cannot
	// reach the cell the alignment mode must end in.
	ErrInvalidBandwidth = errors.New("invalid bandwidth")

	// ErrMalformedCigar is returned for a CIGAR string with a syntax error.
	ErrMalformedCigar = errors.New("malformed cigar")

	// ErrInconsistentCigar is returned for a parseable CIGAR that is
	// structurally invalid, e.g. clips away from the ends.
	ErrInconsistentCigar = errors.New("inconsistent cigar")

	// ErrLengthMismatch is returned when lengths implied by a CIGAR or an
	// alignment disagree with the supplied sequences.
	ErrLengthMismatch = errors.New("length mismatch")
)
