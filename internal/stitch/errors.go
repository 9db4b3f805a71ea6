package stitch

import "errors"

var (
	// ErrEmptyInput is returned when no frames are provided.
	ErrEmptyInput = errors.New("no frames provided")

	// ErrDimensionMismatch is returned when two adjacent frames disagree in
	// size after width normalization.
	ErrDimensionMismatch = errors.New("frame dimension mismatch")

	// ErrEffectiveHeightTooSmall is returned when cropping leaves too few
	// rows to align on.
	ErrEffectiveHeightTooSmall = errors.New("effective height too small")

	// ErrInvalidOption is returned for out-of-range option values.
	ErrInvalidOption = errors.New("invalid option")
)
