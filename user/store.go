package user

import (
	"context"
)

// Store defines the interface for user persistence operations.
type Store interface {
	// Create creates a new user in the store.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail retrieves an active user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
