package project

import (
	"context"
)

// Store defines the interface for project persistence operations.
type Store interface {
	// Create creates a new project in the store.
	Create(ctx context.Context, project *Project) error

	// GetByID retrieves an active project by its ID.
	GetByID(ctx context.Context, id uint) (*Project, error)

	// GetByIDForUser retrieves an active project only if the given user owns
	// it. Returns ErrProjectNotFound otherwise.
	GetByIDForUser(ctx context.Context, id, userID uint) (*Project, error)

	// ListByOwner retrieves a paginated list of active projects for an owner.
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*Project, error)
}
