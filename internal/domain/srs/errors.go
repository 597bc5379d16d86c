package srs

import "errors"

// Sentinel errors for the srs package.
// Use errors.Is to check: errors.Is(err, srs.ErrInvalidQuality)
var (
	ErrInvalidQuality        = errors.New("srs: quality outside [0, 5]")
	ErrInvalidResponseTime   = errors.New("srs: response time must be positive")
	ErrInvalidFeltDifficulty = errors.New("srs: unknown felt difficulty")
	ErrUnknownItem           = errors.New("srs: no conjugation metadata for item")
)
