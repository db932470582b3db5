package project

import (
	"testing"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"github.com/hairizuan-noorazman/caseflow/testutil"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) (*gorm.DB, *MySQLStore) {
	db := testutil.OpenDB(t, &Project{})
	return db, NewMySQLStore(db, logger.NewTestLogger())
}

func createTestProject(name, description string, ownerID uint) *Project {
	return &Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsActive:    true,
	}
}
