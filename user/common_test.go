package user

import (
	"testing"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"github.com/hairizuan-noorazman/caseflow/testutil"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) (*gorm.DB, *MySQLStore) {
	db := testutil.OpenDB(t, &User{})
	return db, NewMySQLStore(db, logger.NewTestLogger())
}

// createTestUser builds an active user with a hashed password.
func createTestUser(t *testing.T, email, username string) *User {
	t.Helper()
	u := &User{
		Email:    email,
		Username: username,
		IsActive: true,
	}
	if err := u.SetPassword("password123"); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	return u
}
