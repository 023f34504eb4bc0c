package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = normalizeEmail(user.Email)
	if r.conflicts(user) {
		return User{}, ErrDuplicate
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.SavedResumes == nil {
		user.SavedResumes = []SavedResume{}
	}
	r.users[user.ID] = clone(user)
	return user, nil
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	email = normalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return clone(user), nil
}

func (r *MemoryRepo) Save(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	user.Email = normalizeEmail(user.Email)
	if r.conflicts(user) {
		return ErrDuplicate
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	for i := range user.SavedResumes {
		if user.SavedResumes[i].CreatedAt.IsZero() {
			user.SavedResumes[i].CreatedAt = user.UpdatedAt
		}
	}
	r.users[user.ID] = clone(user)
	return nil
}

// conflicts reports whether another user holds the same email or username.
func (r *MemoryRepo) conflicts(user User) bool {
	for id, u := range r.users {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return true
		}
	}
	return false
}

func clone(u User) User {
	resumes := make([]SavedResume, len(u.SavedResumes))
	for i, sr := range u.SavedResumes {
		sr.Feedback = append([]string{}, sr.Feedback...)
		resumes[i] = sr
	}
	u.SavedResumes = resumes
	return u
}

var _ Store = (*MemoryRepo)(nil)
