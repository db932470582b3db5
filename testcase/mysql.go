package testcase

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

// NewMySQLStore creates a new MySQL-backed test case store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// withRelations adds the eager loads every consumer of a full case needs.
// Steps come back in stable order.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags").
		Preload("Issues").
		Preload("FieldValues").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		})
}

// Create creates a new test case in the database.
func (s *MySQLStore) Create(ctx context.Context, testCase *TestCase) error {
	if err := testCase.Validate(); err != nil {
		return err
	}

	if testCase.CurrentVersion == 0 {
		testCase.CurrentVersion = 1
	}
	testCase.IsActive = true

	if err := s.db.WithContext(ctx).Create(testCase).Error; err != nil {
		s.logger.Error(ctx, "failed to create test case", map[string]interface{}{
			"error":      err.Error(),
			"name":       testCase.Name,
			"project_id": testCase.ProjectID,
		})
		return err
	}

	s.logger.Info(ctx, "test case created", map[string]interface{}{
		"test_case_id": testCase.ID,
		"project_id":   testCase.ProjectID,
	})

	return nil
}

// GetByID retrieves an active test case with all relations loaded.
func (s *MySQLStore) GetByID(ctx context.Context, projectID, id uint) (*TestCase, error) {
	var tc TestCase
	err := withRelations(s.db.WithContext(ctx)).
		Where("id = ? AND project_id = ? AND is_active = ?", id, projectID, true).
		First(&tc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		s.logger.Error(ctx, "failed to get test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id,
		})
		return nil, err
	}

	return &tc, nil
}

// ListByProject retrieves a paginated list of active test cases.
func (s *MySQLStore) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*TestCase, error) {
	var cases []*TestCase
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		return nil, err
	}

	return cases, nil
}

// CountByProject returns the number of active test cases in a project.
func (s *MySQLStore) CountByProject(ctx context.Context, projectID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&TestCase{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Count(&count).Error

	if err != nil {
		s.logger.Error(ctx, "failed to count test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		return 0, err
	}

	return int(count), nil
}

// ListByIDs retrieves the active test cases with the given IDs inside one project.
func (s *MySQLStore) ListByIDs(ctx context.Context, projectID uint, ids []uint) ([]*TestCase, error) {
	var cases []*TestCase
	err := withRelations(s.db.WithContext(ctx)).
		Where("id IN ? AND project_id = ? AND is_active = ?", ids, projectID, true).
		Order("id ASC").
		Find(&cases).Error

	if err != nil {
		s.logger.Error(ctx, "failed to load test cases by IDs", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
			"case_ids":   ids,
		})
		return nil, err
	}

	return cases, nil
}

// Delete soft deletes a test case.
func (s *MySQLStore) Delete(ctx context.Context, projectID, id uint) error {
	result := s.db.WithContext(ctx).
		Model(&TestCase{}).
		Where("id = ? AND project_id = ? AND is_active = ?", id, projectID, true).
		Update("is_active", false)

	if result.Error != nil {
		s.logger.Error(ctx, "failed to delete test case", map[string]interface{}{
			"error":        result.Error.Error(),
			"test_case_id": id,
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTestCaseNotFound
	}

	s.logger.Info(ctx, "test case deleted", map[string]interface{}{
		"test_case_id": id,
		"project_id":   projectID,
	})

	return nil
}

// ListVersions retrieves a case's version snapshots, newest first.
func (s *MySQLStore) ListVersions(ctx context.Context, projectID, caseID uint) ([]*CaseVersion, error) {
	var versions []*CaseVersion
	err := s.db.WithContext(ctx).
		Where("case_id = ? AND project_id = ?", caseID, projectID).
		Order("version DESC").
		Find(&versions).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list case versions", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": caseID,
		})
		return nil, err
	}

	return versions, nil
}
