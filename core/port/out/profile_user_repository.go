package out

import (
	"context"

	"profile_server/core/domain"
)

//go:generate mockgen -source=profile_user_repository.go -destination=mocks/profile_user_repository_mock.go -package=mocks UserRepository

// UserRepository defines the outbound port for user profile persistence.
type UserRepository interface {
	// Save inserts the user when ID is zero and assigns a new id,
	// otherwise it replaces the stored record with the same id.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByID returns domain.ErrNotFound when no record has the id.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error)

	// DeleteByID is a no-op for an unknown id.
	DeleteByID(ctx context.Context, id int64) error
}
