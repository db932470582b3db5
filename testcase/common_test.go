package testcase

import (
	"testing"

	"github.com/hairizuan-noorazman/caseflow/audit"
	"github.com/hairizuan-noorazman/caseflow/content"
	"github.com/hairizuan-noorazman/caseflow/logger"
	"github.com/hairizuan-noorazman/caseflow/testutil"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory database with the full test case schema,
// join tables included.
func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.OpenDB(t,
		&TestCase{}, &Tag{}, &Issue{}, &CustomFieldValue{}, &Step{}, &CaseVersion{},
	)
}

func setupTestStore(t *testing.T) (*gorm.DB, *MySQLStore) {
	db := setupTestDB(t)
	store := NewMySQLStore(db, logger.NewTestLogger())
	return db, store
}

func setupEditor(t *testing.T) (*gorm.DB, *BulkEditor, *audit.TestRecorder) {
	db := setupTestDB(t)
	recorder := audit.NewTestRecorder()
	editor := NewBulkEditor(db, recorder, logger.NewTestLogger(), 0)
	return db, editor, recorder
}

// createCase persists a test case with the given steps.
func createCase(t *testing.T, db *gorm.DB, projectID uint, name string, version uint, steps ...Step) *TestCase {
	t.Helper()
	tc := &TestCase{
		ProjectID:      projectID,
		Name:           name,
		StateID:        1,
		CurrentVersion: version,
		IsActive:       true,
		Steps:          steps,
	}
	testutil.Seed(t, db, tc)
	return tc
}

// textDoc builds a minimal content tree with a single text leaf.
func textDoc(t *testing.T, text string) content.Body {
	t.Helper()
	body, err := content.NewBody(content.NewContainer("doc", content.NewText(text)))
	if err != nil {
		t.Fatalf("failed to build content body: %v", err)
	}
	return body
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func boolPtr(b bool) *bool    { return &b }
func intPtr(v int) *int       { return &v }
