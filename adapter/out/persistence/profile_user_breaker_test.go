package persistence

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"profile_server/core/domain"
	"profile_server/core/port/out/mocks"
	"profile_server/pkg/apperr"
	"profile_server/pkg/logger"
	"profile_server/pkg/resilience"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBreakerAdapter(t *testing.T, threshold uint32) (*BreakerUserAdapter, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)

	cfg := resilience.DefaultBreakerConfig("users-test")
	cfg.FailureThreshold = threshold
	cfg.Timeout = time.Hour
	cfg.IsSuccessful = IsStoreHealthy

	return NewBreakerUserAdapter(repo, resilience.NewBreaker(cfg, logger.Nop())), repo
}

func TestBreakerUserAdapter_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	adapter, repo := newBreakerAdapter(t, 3)
	boom := errors.New("connection refused")

	repo.EXPECT().FindAll(ctx).Return(nil, boom).Times(3)

	for i := 0; i < 3; i++ {
		_, err := adapter.FindAll(ctx)
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, adapter.State())

	// open breaker short-circuits without touching the store
	_, err := adapter.FindAll(ctx)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, apperr.GetHTTPStatus(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerUserAdapter_NotFoundDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	adapter, repo := newBreakerAdapter(t, 2)

	repo.EXPECT().FindByID(ctx, int64(1)).Return(nil, domain.ErrNotFound).Times(5)

	for i := 0; i < 5; i++ {
		_, err := adapter.FindByID(ctx, 1)
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, adapter.State())
}

func TestBreakerUserAdapter_PassesResults(t *testing.T) {
	ctx := context.Background()
	adapter, repo := newBreakerAdapter(t, 5)
	u := &domain.User{ID: 3, Email: "a@example.com"}

	repo.EXPECT().Save(ctx, u).Return(u, nil)
	repo.EXPECT().FindByBirthDateBetween(ctx, gomock.Any()).Return([]*domain.User{u}, nil)
	repo.EXPECT().DeleteByID(ctx, int64(3)).Return(nil)

	saved, err := adapter.Save(ctx, u)
	require.NoError(t, err)
	assert.Same(t, u, saved)

	list, err := adapter.FindByBirthDateBetween(ctx, domain.BirthDateRange{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, adapter.DeleteByID(ctx, 3))
}

func TestIsStoreHealthy(t *testing.T) {
	assert.True(t, IsStoreHealthy(nil))
	assert.True(t, IsStoreHealthy(domain.ErrNotFound))
	assert.True(t, IsStoreHealthy(context.Canceled))
	assert.False(t, IsStoreHealthy(context.DeadlineExceeded))
	assert.False(t, IsStoreHealthy(errors.New("io")))
}
