package domain

import "errors"

// Validation outcomes of the user profile core. They are returned, never
// panicked, and callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("user not found")
	ErrIneligibleAge = errors.New("ineligible age")
	ErrInvalidRange  = errors.New("invalid birth date range")
)
