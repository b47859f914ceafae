package domain

import "time"

// Merge applies patch onto existing and returns the updated record.
//
// Present fields overwrite, absent ones are kept. ID is never taken from the
// patch. A present BirthDate must satisfy IsEligible at now; when it does not,
// Merge returns ErrIneligibleAge and no field is applied.
func Merge(existing User, patch UserPatch, requiredAge int, now time.Time) (User, error) {
	if patch.BirthDate != nil && !IsEligible(*patch.BirthDate, requiredAge, now) {
		return User{}, ErrIneligibleAge
	}

	merged := existing
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.FirstName != nil {
		merged.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		merged.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		merged.BirthDate = *patch.BirthDate
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	if patch.PhoneNumber != nil {
		merged.PhoneNumber = *patch.PhoneNumber
	}

	return merged, nil
}
