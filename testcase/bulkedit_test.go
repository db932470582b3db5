package testcase

import (
	"testing"

	"github.com/hairizuan-noorazman/caseflow/content"
	"github.com/stretchr/testify/assert"
)

func TestBulkEditRequest_Validate(t *testing.T) {
	t.Run("valid minimal request", func(t *testing.T) {
		req := &BulkEditRequest{CaseIDs: []uint{1, 2}}
		assert.NoError(t, req.Validate())
	})

	t.Run("empty caseIds", func(t *testing.T) {
		req := &BulkEditRequest{}
		assert.ErrorIs(t, req.Validate(), ErrNoCaseIDs)
	})

	t.Run("zero case ID", func(t *testing.T) {
		req := &BulkEditRequest{CaseIDs: []uint{1, 0}}
		assert.ErrorIs(t, req.Validate(), ErrInvalidCaseID)
	})

	t.Run("custom field update without field ID", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:            []uint{1},
			CustomFieldUpdates: []CustomFieldEdit{{Operation: CustomFieldUpdate}},
		}
		assert.ErrorIs(t, req.Validate(), ErrInvalidFieldID)
	})

	t.Run("unknown custom field operation", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:            []uint{1},
			CustomFieldUpdates: []CustomFieldEdit{{FieldID: 3, Operation: "upsert"}},
		}
		assert.ErrorIs(t, req.Validate(), ErrInvalidCustomFieldOp)
	})

	t.Run("unknown steps operation", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:      []uint{1},
			StepsUpdates: &StepsUpdate{Operation: "rewrite"},
		}
		assert.ErrorIs(t, req.Validate(), ErrInvalidStepsOperation)
	})

	t.Run("replace without newSteps", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:      []uint{1},
			StepsUpdates: &StepsUpdate{Operation: StepsReplace},
		}
		assert.ErrorIs(t, req.Validate(), ErrMissingNewSteps)
	})

	t.Run("replace with empty newSteps list is valid", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:      []uint{1},
			StepsUpdates: &StepsUpdate{Operation: StepsReplace, NewSteps: []NewStep{}},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("search-replace without pattern", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs:      []uint{1},
			StepsUpdates: &StepsUpdate{Operation: StepsSearchReplace},
		}
		assert.ErrorIs(t, req.Validate(), content.ErrEmptySearchPattern)
	})

	t.Run("search-replace with bad regex", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs: []uint{1},
			StepsUpdates: &StepsUpdate{
				Operation:     StepsSearchReplace,
				SearchPattern: "(unclosed",
				SearchOptions: content.SearchOptions{UseRegex: true},
			},
		}
		assert.ErrorIs(t, req.Validate(), content.ErrInvalidSearchPattern)
	})

	t.Run("search-replace with empty replacement is valid", func(t *testing.T) {
		req := &BulkEditRequest{
			CaseIDs: []uint{1},
			StepsUpdates: &StepsUpdate{
				Operation:     StepsSearchReplace,
				SearchPattern: "obsolete",
			},
		}
		assert.NoError(t, req.Validate())
	})
}

func TestBulkEditRequest_WantVersions(t *testing.T) {
	assert.True(t, (&BulkEditRequest{}).WantVersions())
	assert.True(t, (&BulkEditRequest{CreateVersions: boolPtr(true)}).WantVersions())
	assert.False(t, (&BulkEditRequest{CreateVersions: boolPtr(false)}).WantVersions())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrNoCaseIDs))
	assert.True(t, IsValidationError(content.ErrInvalidSearchPattern))
	assert.False(t, IsValidationError(ErrPartialMatch))
	assert.False(t, IsValidationError(ErrBulkEditFailed))
}
