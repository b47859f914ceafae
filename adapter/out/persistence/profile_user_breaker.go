package persistence

import (
	"context"
	"errors"

	"profile_server/core/domain"
	"profile_server/core/port/out"
	"profile_server/pkg/apperr"

	"github.com/sony/gobreaker"
)

// BreakerUserAdapter guards a UserRepository with a circuit breaker. Misses
// and caller cancellations do not count as store failures.
type BreakerUserAdapter struct {
	delegate out.UserRepository
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerUserAdapter wraps delegate. The breaker should be built with
// IsStoreHealthy as its success predicate.
func NewBreakerUserAdapter(delegate out.UserRepository, cb *gobreaker.CircuitBreaker) *BreakerUserAdapter {
	return &BreakerUserAdapter{delegate: delegate, cb: cb}
}

// IsStoreHealthy reports whether err leaves the backing store's health untouched.
func IsStoreHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrNilUser)
}

func execute[T any](a *BreakerUserAdapter, fn func() (T, error)) (T, error) {
	var zero T
	res, err := a.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, apperr.ServiceUnavailable("user store", err)
		}
		return zero, err
	}
	return res.(T), nil
}

func (a *BreakerUserAdapter) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	return execute(a, func() (*domain.User, error) { return a.delegate.Save(ctx, user) })
}

func (a *BreakerUserAdapter) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return execute(a, func() (*domain.User, error) { return a.delegate.FindByID(ctx, id) })
}

func (a *BreakerUserAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	return execute(a, func() ([]*domain.User, error) { return a.delegate.FindAll(ctx) })
}

func (a *BreakerUserAdapter) FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error) {
	return execute(a, func() ([]*domain.User, error) { return a.delegate.FindByBirthDateBetween(ctx, r) })
}

func (a *BreakerUserAdapter) DeleteByID(ctx context.Context, id int64) error {
	_, err := execute(a, func() (struct{}, error) { return struct{}{}, a.delegate.DeleteByID(ctx, id) })
	return err
}

// State returns the breaker state for readiness reporting.
func (a *BreakerUserAdapter) State() gobreaker.State {
	return a.cb.State()
}

var _ out.UserRepository = (*BreakerUserAdapter)(nil)
