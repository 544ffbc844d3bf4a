package donation

import "errors"

var (
	// ErrAmountOutOfRange indicates a requested donation amount outside the
	// effective min/max bounds for its frequency.
	ErrAmountOutOfRange = errors.New("donation amount out of range")

	// ErrInvalidFrequency indicates a frequency other than monthly or annual.
	ErrInvalidFrequency = errors.New("invalid donation frequency")
)
