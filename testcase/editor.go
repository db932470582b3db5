package testcase

import (
	"context"
	"errors"
	"time"

	"github.com/hairizuan-noorazman/caseflow/audit"
	"github.com/hairizuan-noorazman/caseflow/content"
	"github.com/hairizuan-noorazman/caseflow/logger"
	"gorm.io/gorm"
)

var (
	// ErrPartialMatch is returned when some requested case IDs do not resolve
	// to active cases in the project. Nothing is mutated in that scenario.
	ErrPartialMatch = errors.New("one or more cases were not found in this project")

	// ErrBulkEditFailed is returned for any failure inside the transaction.
	// The cause is logged, not detailed to the caller.
	ErrBulkEditFailed = errors.New("bulk edit failed")
)

const (
	defaultBaseTimeout = 30 * time.Second
	perCaseTimeout     = 250 * time.Millisecond
)

// MaxTransactionTimeout caps the bulk edit transaction budget regardless of
// batch size. Anything serving bulk edit responses must outlast it.
const MaxTransactionTimeout = 5 * time.Minute

// BulkEditor applies one BulkEditRequest to many cases in a single
// transaction: optional pre-mutation snapshots, a sparse standard-field patch
// with an unconditional version increment, custom field reconciliation and
// steps rewriting, all-or-nothing.
//
// Cases are processed sequentially inside the transaction; isolation between
// concurrent bulk edits is left to the database. There is no optimistic check
// on CurrentVersion, so two overlapping edits can both commit with the last
// writer's field values and the counter advanced twice.
type BulkEditor struct {
	db          *gorm.DB
	store       Store
	recorder    audit.Recorder
	logger      logger.Logger
	baseTimeout time.Duration
}

// NewBulkEditor creates a bulk editor. A baseTimeout of zero selects the
// default; the effective transaction timeout grows with the batch size.
func NewBulkEditor(db *gorm.DB, recorder audit.Recorder, log logger.Logger, baseTimeout time.Duration) *BulkEditor {
	if baseTimeout <= 0 {
		baseTimeout = defaultBaseTimeout
	}
	return &BulkEditor{
		db:          db,
		store:       NewMySQLStore(db, log),
		recorder:    recorder,
		logger:      log,
		baseTimeout: baseTimeout,
	}
}

// Execute validates and applies the request to every targeted case in the
// project. On success it emits an audit event asynchronously and returns the
// per-category counters.
func (e *BulkEditor) Execute(ctx context.Context, projectID uint, req *BulkEditRequest) (*BulkEditResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rewriter *content.Rewriter
	if req.StepsUpdates != nil && req.StepsUpdates.Operation == StepsSearchReplace {
		var err error
		rewriter, err = req.StepsUpdates.rewriter()
		if err != nil {
			return nil, err
		}
	}

	// Pre-transaction read. The count comparison is the engine's sole
	// cross-case existence guarantee; it is not re-checked inside the
	// transaction.
	cases, err := e.store.ListByIDs(ctx, projectID, req.CaseIDs)
	if err != nil {
		return nil, ErrBulkEditFailed
	}
	if len(cases) != len(req.CaseIDs) {
		e.logger.Warn(ctx, "bulk edit rejected on partial match", map[string]interface{}{
			"project_id": projectID,
			"requested":  len(req.CaseIDs),
			"found":      len(cases),
		})
		return nil, ErrPartialMatch
	}

	txCtx, cancel := context.WithTimeout(ctx, e.timeoutFor(len(cases)))
	defer cancel()

	result := &BulkEditResult{}
	err = e.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if req.WantVersions() {
			created, err := e.writeSnapshots(tx, cases)
			if err != nil {
				return err
			}
			result.VersionsCreated = created
		}

		for _, tc := range cases {
			if err := e.applyFieldUpdates(tx, tc, &req.Updates); err != nil {
				return err
			}

			applied, err := e.applyCustomFields(tx, tc, req.CustomFieldUpdates)
			if err != nil {
				return err
			}
			result.CustomFieldsUpdated += applied

			touched, err := e.applySteps(tx, tc, req.StepsUpdates, rewriter)
			if err != nil {
				return err
			}
			if touched {
				result.StepsUpdated++
			}

			result.CasesUpdated++
		}

		return nil
	})
	if err != nil {
		e.logger.Error(ctx, "bulk edit transaction rolled back", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
			"case_count": len(cases),
		})
		return nil, ErrBulkEditFailed
	}

	e.logger.Info(ctx, "bulk edit committed", map[string]interface{}{
		"project_id":            projectID,
		"cases_updated":         result.CasesUpdated,
		"versions_created":      result.VersionsCreated,
		"custom_fields_updated": result.CustomFieldsUpdated,
		"steps_updated":         result.StepsUpdated,
	})

	if result.CasesUpdated > 0 {
		e.recorder.Record(ctx, audit.Event{
			EntityType: audit.EntityTestCase,
			Count:      result.CasesUpdated,
			ProjectID:  projectID,
			CaseIDs:    req.CaseIDs,
		})
	}

	return result, nil
}

// timeoutFor sizes the transaction timeout for the batch.
func (e *BulkEditor) timeoutFor(caseCount int) time.Duration {
	timeout := e.baseTimeout + time.Duration(caseCount)*perCaseTimeout
	if timeout > MaxTransactionTimeout {
		return MaxTransactionTimeout
	}
	return timeout
}

// writeSnapshots appends one pre-mutation snapshot per case in a single bulk
// insert, numbered by each case's current version counter.
func (e *BulkEditor) writeSnapshots(tx *gorm.DB, cases []*TestCase) (int, error) {
	snapshots := make([]CaseVersion, 0, len(cases))
	for _, tc := range cases {
		snapshot, err := snapshotOf(tc)
		if err != nil {
			return 0, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := tx.Create(&snapshots).Error; err != nil {
		return 0, err
	}
	return len(snapshots), nil
}

// applyFieldUpdates applies the sparse standard-field patch in one update
// statement, always advancing the version counter by exactly one, then
// applies the tag and issue relation deltas verbatim.
func (e *BulkEditor) applyFieldUpdates(tx *gorm.DB, tc *TestCase, updates *FieldUpdates) error {
	patch := map[string]interface{}{
		"current_version": tc.CurrentVersion + 1,
	}
	if updates.Name != nil {
		patch["name"] = *updates.Name
	}
	if updates.StateID != nil {
		patch["state_id"] = *updates.StateID
	}
	if updates.Automated != nil {
		patch["automated"] = *updates.Automated
	}
	if updates.Estimate != nil {
		patch["estimate"] = *updates.Estimate
	}

	if err := tx.Model(&TestCase{}).Where("id = ?", tc.ID).Updates(patch).Error; err != nil {
		return err
	}
	tc.CurrentVersion++

	if updates.Tags != nil {
		if err := e.applyRelationDelta(tx, tc, "Tags", updates.Tags, func(id uint) interface{} {
			return &Tag{ID: id}
		}); err != nil {
			return err
		}
	}
	if updates.Issues != nil {
		if err := e.applyRelationDelta(tx, tc, "Issues", updates.Issues, func(id uint) interface{} {
			return &Issue{ID: id}
		}); err != nil {
			return err
		}
	}

	return nil
}

func (e *BulkEditor) applyRelationDelta(tx *gorm.DB, tc *TestCase, name string, delta *RelationDelta, ref func(uint) interface{}) error {
	owner := &TestCase{ID: tc.ID}
	for _, connect := range delta.Connect {
		if err := tx.Model(owner).Association(name).Append(ref(connect.ID)); err != nil {
			return err
		}
	}
	for _, disconnect := range delta.Disconnect {
		if err := tx.Model(owner).Association(name).Delete(ref(disconnect.ID)); err != nil {
			return err
		}
	}
	return nil
}

// applyCustomFields reconciles each requested edit against the case's
// existing value for that field. Returns how many edits actually ran:
//   - delete removes the existing value; deleting a missing value is a no-op
//     and does not count.
//   - update is an upsert: overwrite in place when a value exists, create one
//     otherwise.
//   - create always inserts a new row, even over an existing value for the
//     same field. Callers wanting upsert semantics use update.
func (e *BulkEditor) applyCustomFields(tx *gorm.DB, tc *TestCase, edits []CustomFieldEdit) (int, error) {
	applied := 0
	for _, edit := range edits {
		switch edit.Operation {
		case CustomFieldDelete:
			result := tx.Where("case_id = ? AND field_id = ?", tc.ID, edit.FieldID).
				Delete(&CustomFieldValue{})
			if result.Error != nil {
				return applied, result.Error
			}
			if result.RowsAffected > 0 {
				applied++
			}

		case CustomFieldUpdate:
			var existing CustomFieldValue
			err := tx.Where("case_id = ? AND field_id = ?", tc.ID, edit.FieldID).
				First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Update("value", edit.Value).Error; err != nil {
					return applied, err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				value := &CustomFieldValue{CaseID: tc.ID, FieldID: edit.FieldID, Value: edit.Value}
				if err := tx.Create(value).Error; err != nil {
					return applied, err
				}
			default:
				return applied, err
			}
			applied++

		case CustomFieldCreate:
			value := &CustomFieldValue{CaseID: tc.ID, FieldID: edit.FieldID, Value: edit.Value}
			if err := tx.Create(value).Error; err != nil {
				return applied, err
			}
			applied++
		}
	}
	return applied, nil
}

// applySteps replaces or rewrites the case's steps. Returns whether any step
// was processed for this case.
func (e *BulkEditor) applySteps(tx *gorm.DB, tc *TestCase, update *StepsUpdate, rewriter *content.Rewriter) (bool, error) {
	if update == nil {
		return false, nil
	}

	switch update.Operation {
	case StepsReplace:
		result := tx.Where("case_id = ?", tc.ID).Delete(&Step{})
		if result.Error != nil {
			return false, result.Error
		}
		for _, newStep := range update.NewSteps {
			step := &Step{
				CaseID:         tc.ID,
				Order:          newStep.Order,
				Body:           newStep.Body,
				ExpectedResult: newStep.ExpectedResult,
			}
			if err := tx.Create(step).Error; err != nil {
				return false, err
			}
		}
		return result.RowsAffected > 0 || len(update.NewSteps) > 0, nil

	case StepsSearchReplace:
		for _, step := range tc.Steps {
			// Malformed content comes back unchanged from the rewriter and is
			// written back as-is; it never aborts the batch.
			body, _ := rewriter.RewriteBody(step.Body)
			expected, _ := rewriter.RewriteBody(step.ExpectedResult)

			err := tx.Model(&Step{}).Where("id = ?", step.ID).Updates(map[string]interface{}{
				"body":            []byte(body),
				"expected_result": []byte(expected),
			}).Error
			if err != nil {
				return false, err
			}
		}
		return len(tc.Steps) > 0, nil
	}

	return false, nil
}
