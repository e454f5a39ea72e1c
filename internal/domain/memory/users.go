package memory

import (
	"context"

	"hbnb/internal/domain/users"
)

type userStore struct{ d *DB }

func cloneUser(u *users.User) *users.User {
	cp := *u
	return &cp
}

func (s *userStore) emailTakenLocked(email, exceptID string) bool {
	for _, u := range s.d.users {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (s *userStore) Create(_ context.Context, u *users.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	u.Email = users.NormalizeEmail(u.Email)
	if s.emailTakenLocked(u.Email, "") {
		return users.ErrDuplicateEmail
	}
	now := s.d.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.d.users[u.ID] = cloneUser(u)
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*users.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	u, ok := s.d.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	email = users.NormalizeEmail(email)
	for _, u := range s.d.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, users.ErrNotFound
}

func (s *userStore) List(_ context.Context, limit, offset int) ([]*users.User, int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	all := values(s.d.users, cloneUser, nil)
	sortBy(all, func(a, b *users.User) bool { return olderFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	return page(all, limit, offset), len(all), nil
}

func (s *userStore) Update(_ context.Context, u *users.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.users[u.ID]; !ok {
		return users.ErrNotFound
	}
	u.Email = users.NormalizeEmail(u.Email)
	if s.emailTakenLocked(u.Email, u.ID) {
		return users.ErrDuplicateEmail
	}
	u.UpdatedAt = s.d.now()
	s.d.users[u.ID] = cloneUser(u)
	return nil
}

func (s *userStore) Delete(_ context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	if _, ok := s.d.users[id]; !ok {
		return users.ErrNotFound
	}
	s.d.deleteUserLocked(id)
	return nil
}
