package testcase

import (
	"context"
)

// Store defines the interface for test case persistence operations.
type Store interface {
	// Create creates a new test case with its steps.
	Create(ctx context.Context, testCase *TestCase) error

	// GetByID retrieves an active test case with all relations loaded.
	GetByID(ctx context.Context, projectID, id uint) (*TestCase, error)

	// ListByProject retrieves a paginated list of active test cases.
	ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*TestCase, error)

	// CountByProject returns the number of active test cases in a project.
	CountByProject(ctx context.Context, projectID uint) (int, error)

	// ListByIDs retrieves the active test cases with the given IDs inside one
	// project, with tags, issues, field values and ordered steps eagerly
	// loaded. Missing IDs are simply absent from the result.
	ListByIDs(ctx context.Context, projectID uint, ids []uint) ([]*TestCase, error)

	// Delete soft deletes a test case.
	Delete(ctx context.Context, projectID, id uint) error

	// ListVersions retrieves a case's version snapshots, newest first.
	ListVersions(ctx context.Context, projectID, caseID uint) ([]*CaseVersion, error)
}
