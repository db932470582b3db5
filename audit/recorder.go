package audit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"gorm.io/gorm"
)

// AsyncRecorder persists audit records in a background goroutine per event.
type AsyncRecorder struct {
	db     *gorm.DB
	logger logger.Logger
	wg     sync.WaitGroup
}

// NewAsyncRecorder creates a new database-backed asynchronous recorder.
func NewAsyncRecorder(db *gorm.DB, log logger.Logger) *AsyncRecorder {
	return &AsyncRecorder{
		db:     db,
		logger: log,
	}
}

// Record persists the event asynchronously. The write deliberately detaches
// from the request context so an already-finished request cannot cancel it.
func (r *AsyncRecorder) Record(ctx context.Context, event Event) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		filter, err := json.Marshal(map[string]interface{}{"caseIds": event.CaseIDs})
		if err != nil {
			r.logger.Error(context.Background(), "failed to encode audit filter", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}

		record := Record{
			EntityType: event.EntityType,
			Count:      event.Count,
			ProjectID:  event.ProjectID,
			Filter:     string(filter),
		}

		if err := r.db.Create(&record).Error; err != nil {
			r.logger.Error(context.Background(), "failed to write audit record", map[string]interface{}{
				"error":       err.Error(),
				"entity_type": event.EntityType,
				"project_id":  event.ProjectID,
			})
			return
		}

		r.logger.Info(context.Background(), "audit record written", map[string]interface{}{
			"audit_id":    record.ID.String(),
			"entity_type": event.EntityType,
			"count":       event.Count,
			"project_id":  event.ProjectID,
		})
	}()
}

// Wait blocks until all in-flight records are persisted. Used on shutdown
// and in tests.
func (r *AsyncRecorder) Wait() {
	r.wg.Wait()
}

// TestRecorder captures events in memory for assertions.
type TestRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewTestRecorder creates a new capturing recorder.
func NewTestRecorder() *TestRecorder {
	return &TestRecorder{}
}

// Record captures the event.
func (r *TestRecorder) Record(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of all captured events.
func (r *TestRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}
