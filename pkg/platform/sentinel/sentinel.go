// Package sentinel holds the errors storage adapters return so services can
// translate them into domain errors exactly once.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("unavailable")
)
