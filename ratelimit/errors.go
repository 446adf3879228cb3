package ratelimit

import "errors"

var (
	// ErrInvalidConfig is returned when limiter configuration is invalid.
	// Configuration errors are fatal at startup; the engine itself has no
	// runtime error path. A denied admission is a normal verdict, not an
	// error.
	ErrInvalidConfig = errors.New("invalid limiter configuration")
)
