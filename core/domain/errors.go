package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates no live credential matched the lookup
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input or configuration is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is the uniform rejection for failed validation.
	// Malformed bearers, missing rows, expired rows, and hash mismatches
	// all collapse to this error so callers cannot enumerate credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")
)
