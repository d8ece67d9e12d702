package seed

import "errors"

// Sentinel errors for the seed tool.
var (
	ErrInvalidConfig = errors.New("invalid seed configuration")
	ErrProbeFailed   = errors.New("probe failed")
)
