// Package audit records post-hoc summaries of bulk mutations. Recording is
// fire-and-forget: a failed write is logged and never surfaced to the caller.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityTestCase is the entity type reported for test case mutations.
const EntityTestCase = "TestCaseEntity"

// Event describes one completed bulk mutation.
type Event struct {
	EntityType string
	Count      int
	ProjectID  uint
	CaseIDs    []uint
}

// Record is a persisted audit row.
type Record struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	EntityType string    `json:"entity_type" gorm:"not null;index:idx_audit_entity_type"`
	Count      int       `json:"count" gorm:"not null"`
	ProjectID  uint      `json:"project_id" gorm:"not null;index:idx_audit_project_id"`
	Filter     string    `json:"filter" gorm:"type:json"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Record) TableName() string {
	return "audit_records"
}

// BeforeCreate hook to generate a UUID before inserting a record.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Recorder receives mutation events. Implementations must not block the
// caller and must not propagate failures.
type Recorder interface {
	Record(ctx context.Context, event Event)
}
