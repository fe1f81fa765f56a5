package controlplane

import "errors"

// Sentinel errors for the HTTP API.
var (
	ErrNoJournal       = errors.New("audit journal not configured")
	ErrInvalidPosition = errors.New("x and y must be integers")
	ErrEmptyCommand    = errors.New("command is required")
)
