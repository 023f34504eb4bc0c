package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user with this email or username already exists")
)

// Store persists users and their saved analyses.
type Store interface {
	// Create inserts a new user and returns ErrDuplicate on email or username conflicts.
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	// Save updates the profile and replaces the saved analyses.
	Save(ctx context.Context, user User) error
}
