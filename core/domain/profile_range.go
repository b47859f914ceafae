package domain

import "time"

// ValidateRange checks birth date query bounds. Equal bounds are a valid
// zero-width range.
func ValidateRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidRange
	}
	return nil
}

// NewBirthDateRange validates the bounds and builds the range.
func NewBirthDateRange(from, to time.Time) (BirthDateRange, error) {
	if err := ValidateRange(from, to); err != nil {
		return BirthDateRange{}, err
	}
	return BirthDateRange{From: from, To: to}, nil
}
