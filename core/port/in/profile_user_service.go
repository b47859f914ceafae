package in

import (
	"context"
	"time"

	"profile_server/core/domain"
)

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByBirthDateRange(ctx context.Context, from, to time.Time) ([]*domain.User, error)
	UpdateByID(ctx context.Context, id int64, req *UpdateUserRequest) (*domain.User, error)
	DeleteByID(ctx context.Context, id int64) error
}

type CreateUserRequest struct {
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	BirthDate   time.Time `json:"birthDate"`
	Address     *string   `json:"address,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
}

// UpdateUserRequest carries only the fields the caller sent.
type UpdateUserRequest struct {
	Email       *string    `json:"email,omitempty"`
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	Address     *string    `json:"address,omitempty"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
}

// Patch converts the request into a domain patch.
func (r *UpdateUserRequest) Patch() domain.UserPatch {
	if r == nil {
		return domain.UserPatch{}
	}
	return domain.UserPatch{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BirthDate:   r.BirthDate,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
	}
}
