package persistence

import (
	"context"
	"sort"
	"sync"

	"profile_server/core/domain"
	"profile_server/core/port/out"
)

// MemoryUserAdapter keeps users in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemoryUserAdapter struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64
}

// NewMemoryUserAdapter creates an empty store.
func NewMemoryUserAdapter() *MemoryUserAdapter {
	return &MemoryUserAdapter{users: make(map[int64]domain.User)}
}

func (a *MemoryUserAdapter) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	u := *user
	if u.ID == 0 {
		a.nextID++
		u.ID = a.nextID
	} else if _, ok := a.users[u.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	a.users[u.ID] = u

	return &u, nil
}

func (a *MemoryUserAdapter) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	u, ok := a.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (a *MemoryUserAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	return a.filter(ctx, func(domain.User) bool { return true })
}

func (a *MemoryUserAdapter) FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error) {
	return a.filter(ctx, func(u domain.User) bool { return r.Contains(u.BirthDate) })
}

func (a *MemoryUserAdapter) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.users, id)
	a.mu.Unlock()
	return nil
}

// filter returns matching users ordered by id.
func (a *MemoryUserAdapter) filter(ctx context.Context, keep func(domain.User) bool) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	result := make([]*domain.User, 0, len(a.users))
	for _, u := range a.users {
		if keep(u) {
			u := u
			result = append(result, &u)
		}
	}
	a.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

var _ out.UserRepository = (*MemoryUserAdapter)(nil)
