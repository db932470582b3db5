// Package testcase holds the test case domain model and the bulk mutation
// engine that edits many cases in one transaction.
package testcase

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/hairizuan-noorazman/caseflow/content"
)

var (
	// ErrTestCaseNotFound is returned when a test case is not found.
	ErrTestCaseNotFound = errors.New("test case not found")

	// ErrInvalidTestCaseName is returned when a test case name is empty.
	ErrInvalidTestCaseName = errors.New("test case name is required")

	// ErrInvalidProjectID is returned when project_id is not set.
	ErrInvalidProjectID = errors.New("project_id is required")
)

// JSON is an opaque JSON payload stored in a json column. The engine never
// interprets it; custom field types live with an external field catalog.
type JSON []byte

// Value implements the driver.Valuer interface for database storage.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append(JSON(nil), v...)
	case string:
		*j = JSON(v)
	default:
		return errors.New("failed to scan JSON: unsupported source type")
	}
	return nil
}

// MarshalJSON writes the payload verbatim, or null when empty.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON stores the raw JSON verbatim.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append(JSON(nil), data...)
	return nil
}

// TestCase represents a versioned test case within a project.
type TestCase struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ProjectID      uint      `json:"project_id" gorm:"not null;index:idx_test_cases_project_id"`
	Name           string    `json:"name" gorm:"not null"`
	StateID        uint      `json:"state_id" gorm:"index:idx_test_cases_state_id"`
	Automated      bool      `json:"automated" gorm:"default:false"`
	Estimate       *int      `json:"estimate,omitempty"`
	CurrentVersion uint      `json:"current_version" gorm:"not null;default:1"`
	CreatedBy      uint      `json:"created_by"`
	IsActive       bool      `json:"is_active" gorm:"default:true;index:idx_test_cases_is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:test_case_tags"`
	Issues      []Issue            `json:"issues,omitempty" gorm:"many2many:test_case_issues"`
	FieldValues []CustomFieldValue `json:"field_values,omitempty" gorm:"foreignKey:CaseID"`
	Steps       []Step             `json:"steps,omitempty" gorm:"foreignKey:CaseID"`
}

// Validate checks if the test case has valid required fields.
func (tc *TestCase) Validate() error {
	if tc.Name == "" {
		return ErrInvalidTestCaseName
	}
	if tc.ProjectID == 0 {
		return ErrInvalidProjectID
	}
	return nil
}

// Tag is a project-scoped label attached to test cases.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"not null;index:idx_tags_project_id"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Issue is a linked tracker issue. The engine only manages the link; talking
// to the tracker is someone else's job.
type Issue struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProjectID   uint      `json:"project_id" gorm:"not null;index:idx_issues_project_id"`
	ExternalKey string    `json:"external_key" gorm:"not null"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

// CustomFieldValue associates an opaque value with a (case, field) pair.
// Under correct usage at most one row exists per pair; the bulk editor's
// update and delete operations rely on that.
type CustomFieldValue struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CaseID    uint      `json:"case_id" gorm:"not null;index:idx_field_values_case_id"`
	FieldID   uint      `json:"field_id" gorm:"not null;index:idx_field_values_field_id"`
	Value     JSON      `json:"value" gorm:"type:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (CustomFieldValue) TableName() string {
	return "custom_field_values"
}

// Step is one ordered instruction on a test case. Both content fields hold
// structured rich-text trees.
type Step struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	CaseID         uint         `json:"case_id" gorm:"not null;index:idx_steps_case_id"`
	Order          int          `json:"order" gorm:"column:step_order;not null"`
	Body           content.Body `json:"step" gorm:"type:json"`
	ExpectedResult content.Body `json:"expectedResult" gorm:"type:json"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName returns the database table name.
func (Step) TableName() string {
	return "steps"
}
