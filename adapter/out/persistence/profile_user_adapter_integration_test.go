//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"profile_server/core/domain"
	"profile_server/internal/testutil/containers"
	"profile_server/pkg/cache"
	"profile_server/pkg/logger"

	"github.com/stretchr/testify/suite"
)

type UserAdapterSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	adapter *UserAdapter
	ctx     context.Context
}

func TestUserAdapterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration suite in short mode")
	}
	suite.Run(t, new(UserAdapterSuite))
}

func (s *UserAdapterSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.adapter = NewUserAdapter(s.pg.DB, "users")
	s.Require().NoError(s.adapter.EnsureSchema(s.ctx))
	// second call must be a no-op
	s.Require().NoError(s.adapter.EnsureSchema(s.ctx))
}

func (s *UserAdapterSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(s.ctx, `TRUNCATE users RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *UserAdapterSuite) TestInsertAndFind() {
	saved, err := s.adapter.Save(s.ctx, &domain.User{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		BirthDate: time.Date(1994, time.March, 3, 12, 30, 0, 0, time.UTC),
		Address:   "1 Main st",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), saved.ID)

	got, err := s.adapter.FindByID(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.Equal(saved, got)
	s.Empty(got.PhoneNumber)
}

func (s *UserAdapterSuite) TestUpdate() {
	saved, err := s.adapter.Save(s.ctx, newUser("a@example.com", date(1990, 1, 1)))
	s.Require().NoError(err)

	saved.PhoneNumber = "380111111111"
	updated, err := s.adapter.Save(s.ctx, saved)
	s.Require().NoError(err)
	s.Equal("380111111111", updated.PhoneNumber)

	_, err = s.adapter.Save(s.ctx, &domain.User{ID: 404, Email: "x", FirstName: "x", LastName: "x", BirthDate: date(1990, 1, 1)})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *UserAdapterSuite) TestFindByIDMissing() {
	_, err := s.adapter.FindByID(s.ctx, 12345)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *UserAdapterSuite) TestBirthDateRangeInclusive() {
	for _, birth := range []time.Time{date(2000, 6, 1), date(2002, 2, 2), date(2000, 1, 1), date(2001, 1, 2)} {
		_, err := s.adapter.Save(s.ctx, newUser("r@example.com", birth))
		s.Require().NoError(err)
	}

	got, err := s.adapter.FindByBirthDateBetween(s.ctx, domain.BirthDateRange{From: date(2000, 1, 1), To: date(2001, 1, 2)})
	s.Require().NoError(err)
	s.Len(got, 3)
	for _, u := range got {
		s.NotEqual(date(2002, 2, 2), u.BirthDate)
	}
}

func (s *UserAdapterSuite) TestFindAllAndDelete() {
	for i := 0; i < 3; i++ {
		_, err := s.adapter.Save(s.ctx, newUser("d@example.com", date(1990, 1, 1)))
		s.Require().NoError(err)
	}

	s.Require().NoError(s.adapter.DeleteByID(s.ctx, 2))
	s.Require().NoError(s.adapter.DeleteByID(s.ctx, 2))

	all, err := s.adapter.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(int64(1), all[0].ID)
	s.Equal(int64(3), all[1].ID)
}

type CachedUserAdapterSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	store   *MemoryUserAdapter
	adapter *CachedUserAdapter
	ctx     context.Context
}

func TestCachedUserAdapterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration suite in short mode")
	}
	suite.Run(t, new(CachedUserAdapterSuite))
}

func (s *CachedUserAdapterSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedUserAdapterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.store = NewMemoryUserAdapter()
	s.adapter = NewCachedUserAdapter(s.store, cache.NewRedisCache(s.redis.Client, "profile:"), time.Minute, logger.Nop())
}

func (s *CachedUserAdapterSuite) TestRoundTripThroughRedis() {
	saved, err := s.adapter.Save(s.ctx, newUser("a@example.com", date(1990, 5, 5)))
	s.Require().NoError(err)

	n, err := s.redis.Client.Exists(s.ctx, "profile:"+userCacheKey(saved.ID)).Result()
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	got, err := s.adapter.FindByID(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.Equal(saved.Email, got.Email)
	s.True(saved.BirthDate.Equal(got.BirthDate))
}

func (s *CachedUserAdapterSuite) TestDeleteEvictsRedisKey() {
	saved, err := s.adapter.Save(s.ctx, newUser("a@example.com", date(1990, 5, 5)))
	s.Require().NoError(err)

	s.Require().NoError(s.adapter.DeleteByID(s.ctx, saved.ID))

	n, err := s.redis.Client.Exists(s.ctx, "profile:"+userCacheKey(saved.ID)).Result()
	s.Require().NoError(err)
	s.Zero(n)
}
