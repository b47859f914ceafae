// Package user implements the profile service.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profile_server/core/domain"
	"profile_server/core/port/in"
	"profile_server/core/port/out"
	"profile_server/pkg/apperr"
	"profile_server/pkg/logger"
	"profile_server/pkg/metrics"
)

// ErrRequiredAgeUnset is returned by NewService when WithRequiredAge was not given.
var ErrRequiredAgeUnset = errors.New("user service: required age not configured")

const (
	opCreate     = "create"
	opGetByID    = "get_by_id"
	opGetAll     = "get_all"
	opGetByRange = "get_by_birth_date_range"
	opUpdate     = "update_by_id"
	opDelete     = "delete_by_id"
)

type Service struct {
	repo        out.UserRepository
	requiredAge int
	now         func() time.Time
	log         *logger.Logger
	metrics     *metrics.UserMetrics
}

type Option func(*Service)

// WithRequiredAge sets the minimum age in whole years.
func WithRequiredAge(age int) Option {
	return func(s *Service) { s.requiredAge = age }
}

// WithClock replaces time.Now as the reference for the eligibility rule.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.UserMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo out.UserRepository, opts ...Option) (*Service, error) {
	s := &Service{
		repo:        repo,
		requiredAge: -1,
		now:         time.Now,
		log:         logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if repo == nil {
		return nil, errors.New("user service: repository is required")
	}
	if s.requiredAge < 0 {
		return nil, ErrRequiredAgeUnset
	}
	return s, nil
}

// RequiredAge returns the configured minimum age.
func (s *Service) RequiredAge() int {
	return s.requiredAge
}

func (s *Service) Create(ctx context.Context, req *in.CreateUserRequest) (u *domain.User, err error) {
	defer s.observe(opCreate, time.Now(), &err)

	if req == nil {
		return nil, apperr.BadRequest("request body is required")
	}
	if !domain.IsEligible(req.BirthDate, s.requiredAge, s.now()) {
		return nil, apperr.IneligibleAge(s.requiredAge, domain.ErrIneligibleAge)
	}

	user := &domain.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, s.storeError(ctx, "create user", err)
	}

	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}
	s.log.WithContext(ctx).WithField("user_id", saved.ID).Info("user registered")
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (u *domain.User, err error) {
	defer s.observe(opGetByID, time.Now(), &err)

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.UserNotFound(id, err)
		}
		return nil, s.storeError(ctx, "find user", err)
	}
	return user, nil
}

func (s *Service) GetAll(ctx context.Context) (users []*domain.User, err error) {
	defer s.observe(opGetAll, time.Now(), &err)

	users, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list users", err)
	}
	return users, nil
}

func (s *Service) GetByBirthDateRange(ctx context.Context, from, to time.Time) (users []*domain.User, err error) {
	defer s.observe(opGetByRange, time.Now(), &err)

	r, err := domain.NewBirthDateRange(from, to)
	if err != nil {
		return nil, apperr.InvalidRange(err)
	}

	users, err = s.repo.FindByBirthDateBetween(ctx, r)
	if err != nil {
		return nil, s.storeError(ctx, "list users by birth date", err)
	}
	return users, nil
}

// UpdateByID applies only the present fields of req. Overlapping updates of
// the same id are not serialized; the last save wins.
func (s *Service) UpdateByID(ctx context.Context, id int64, req *in.UpdateUserRequest) (u *domain.User, err error) {
	defer s.observe(opUpdate, time.Now(), &err)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.UserNotFound(id, err)
		}
		return nil, s.storeError(ctx, "find user", err)
	}

	merged, err := domain.Merge(*existing, req.Patch(), s.requiredAge, s.now())
	if err != nil {
		return nil, apperr.IneligibleAge(s.requiredAge, err)
	}

	saved, err := s.repo.Save(ctx, &merged)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.UserNotFound(id, err)
		}
		return nil, s.storeError(ctx, "update user", err)
	}
	return saved, nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) (err error) {
	defer s.observe(opDelete, time.Now(), &err)

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.storeError(ctx, "delete user", err)
	}

	if s.metrics != nil {
		s.metrics.UsersDeleted.Inc()
	}
	return nil
}

// storeError logs the persistence failure and hides it behind a 5xx.
// Adapters that already classified the failure keep their AppError.
func (s *Service) storeError(ctx context.Context, operation string, err error) error {
	s.log.WithContext(ctx).WithError(err).Error("%s failed", operation)

	if apperr.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(operation).WithError(err)
	}
	return apperr.DatabaseError(operation, fmt.Errorf("%s: %w", operation, err))
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOperation(operation, start, *err)
}

var _ in.UserService = (*Service)(nil)
