package domain

import "time"

// User is a stored user profile.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	BirthDate   time.Time `json:"birthDate"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
}

// UserPatch is a partial update. A nil field means the caller did not send it
// and the stored value is kept.
type UserPatch struct {
	ID          *int64     `json:"id,omitempty"`
	Email       *string    `json:"email,omitempty"`
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	Address     *string    `json:"address,omitempty"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
}

// BirthDateRange is an inclusive [From, To] window over User.BirthDate.
type BirthDateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r BirthDateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
