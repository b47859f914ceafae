package persistence

import (
	"context"
	"strconv"
	"time"

	"profile_server/core/domain"
	"profile_server/core/port/out"
	"profile_server/pkg/logger"
)

// DefaultUserCacheTTL applies when NewCachedUserAdapter gets a zero ttl.
const DefaultUserCacheTTL = 30 * time.Minute

// JSONCache is the subset of cache.RedisCache the decorator needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedUserAdapter wraps a UserRepository with a read-through cache on FindByID.
// Lists always hit the delegate. Cache failures are logged and never surface
// to the caller.
type CachedUserAdapter struct {
	delegate out.UserRepository
	cache    JSONCache
	ttl      time.Duration
	log      *logger.Logger
}

// NewCachedUserAdapter creates a new cached user adapter.
func NewCachedUserAdapter(delegate out.UserRepository, c JSONCache, ttl time.Duration, log *logger.Logger) *CachedUserAdapter {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	if log == nil {
		log = logger.Default()
	}
	return &CachedUserAdapter{delegate: delegate, cache: c, ttl: ttl, log: log}
}

func userCacheKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func (a *CachedUserAdapter) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := a.delegate.Save(ctx, user)
	if err != nil {
		if user != nil && user.ID != 0 {
			a.evict(ctx, user.ID)
		}
		return nil, err
	}

	if err := a.cache.SetJSON(ctx, userCacheKey(saved.ID), saved, a.ttl); err != nil {
		a.log.WithContext(ctx).WithError(err).Warn("user cache write failed, evicting")
		a.evict(ctx, saved.ID)
	}
	return saved, nil
}

func (a *CachedUserAdapter) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	key := userCacheKey(id)

	var cached domain.User
	found, err := a.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		a.log.WithContext(ctx).WithError(err).Warn("user cache read failed")
	}
	if err == nil && found {
		return &cached, nil
	}

	// Misses are not cached: ids are handed out sequentially, so an unknown
	// id may exist a moment later.
	user, err := a.delegate.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.cache.SetJSON(ctx, key, user, a.ttl); err != nil {
		a.log.WithContext(ctx).WithError(err).WithField("user_id", id).Warn("user cache fill failed")
	}
	return user, nil
}

func (a *CachedUserAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	return a.delegate.FindAll(ctx)
}

func (a *CachedUserAdapter) FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error) {
	return a.delegate.FindByBirthDateBetween(ctx, r)
}

// DeleteByID evicts on both sides of the delete so a concurrent FindByID
// that refilled the key in between does not outlive the row.
func (a *CachedUserAdapter) DeleteByID(ctx context.Context, id int64) error {
	a.evict(ctx, id)
	if err := a.delegate.DeleteByID(ctx, id); err != nil {
		return err
	}
	a.evict(ctx, id)
	return nil
}

func (a *CachedUserAdapter) evict(ctx context.Context, id int64) {
	if err := a.cache.Delete(ctx, userCacheKey(id)); err != nil {
		a.log.WithContext(ctx).WithError(err).WithField("user_id", id).Warn("user cache eviction failed")
	}
}

var _ out.UserRepository = (*CachedUserAdapter)(nil)
