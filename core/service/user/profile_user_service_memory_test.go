package user_test

import (
	"context"
	"testing"
	"time"

	"profile_server/adapter/out/persistence"
	"profile_server/core/port/in"
	"profile_server/core/service/user"
	"profile_server/pkg/apperr"
	"profile_server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryService(t *testing.T, now time.Time) (*user.Service, *persistence.MemoryUserAdapter) {
	t.Helper()
	repo := persistence.NewMemoryUserAdapter()
	svc, err := user.NewService(repo,
		user.WithRequiredAge(18),
		user.WithClock(func() time.Time { return now }),
		user.WithLogger(logger.Nop()),
	)
	require.NoError(t, err)
	return svc, repo
}

func TestService_IneligibleCreateIsNotPersisted(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newMemoryService(t, now)
	ctx := context.Background()

	_, err := svc.Create(ctx, &in.CreateUserRequest{
		Email:     "young@example.com",
		FirstName: "Young",
		LastName:  "Person",
		BirthDate: now.AddDate(-18, 0, 1),
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeIneligibleAge))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_CreateGetUpdateRoundTrip(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(t, now)
	ctx := context.Background()

	address := "7 Elm Rd"
	created, err := svc.Create(ctx, &in.CreateUserRequest{
		Email:     "ann@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		BirthDate: now.AddDate(-30, 0, 0),
		Address:   &address,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	first := "Anna"
	updated, err := svc.UpdateByID(ctx, created.ID, &in.UpdateUserRequest{FirstName: &first})
	require.NoError(t, err)

	want := *created
	want.FirstName = "Anna"
	assert.Equal(t, &want, updated)

	got, err = svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestService_BirthDateRangeOverMemory(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newMemoryService(t, now)
	ctx := context.Background()

	births := []time.Time{
		time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2002, time.February, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, b := range births {
		_, err := svc.Create(ctx, &in.CreateUserRequest{
			Email:     "u" + string(rune('a'+i)) + "@example.com",
			FirstName: "First",
			LastName:  "Last",
			BirthDate: b,
		})
		require.NoError(t, err)
	}

	users, err := svc.GetByBirthDateRange(ctx,
		time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, births[0], users[0].BirthDate)

	err = svc.DeleteByID(ctx, users[0].ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, users[0].ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))
}
