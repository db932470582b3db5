package project

import (
	"context"
	"errors"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"gorm.io/gorm"
)

// MySQLStore implements the Store interface using GORM and MySQL.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new MySQL-backed project store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new project in the database.
func (s *MySQLStore) Create(ctx context.Context, project *Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		s.logger.Error(ctx, "failed to create project", map[string]interface{}{
			"error":    err.Error(),
			"name":     project.Name,
			"owner_id": project.OwnerID,
		})
		return err
	}

	s.logger.Info(ctx, "project created", map[string]interface{}{
		"project_id": project.ID,
		"name":       project.Name,
	})

	return nil
}

// GetByID retrieves an active project by its ID.
func (s *MySQLStore) GetByID(ctx context.Context, id uint) (*Project, error) {
	var project Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error(ctx, "failed to get project by ID", map[string]interface{}{
			"error":      err.Error(),
			"project_id": id,
		})
		return nil, err
	}

	return &project, nil
}

// GetByIDForUser retrieves an active project only if the given user owns it.
func (s *MySQLStore) GetByIDForUser(ctx context.Context, id, userID uint) (*Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != userID {
		s.logger.Warn(ctx, "project access denied", map[string]interface{}{
			"project_id": id,
			"user_id":    userID,
		})
		return nil, ErrProjectNotFound
	}

	return project, nil
}

// ListByOwner retrieves a paginated list of active projects for an owner.
func (s *MySQLStore) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]*Project, error) {
	var projects []*Project
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list projects by owner", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return nil, err
	}

	return projects, nil
}
