package testcase

import (
	"errors"

	"github.com/hairizuan-noorazman/caseflow/content"
)

var (
	// ErrNoCaseIDs is returned when caseIds is missing or empty.
	ErrNoCaseIDs = errors.New("caseIds must be a non-empty list")

	// ErrInvalidCaseID is returned when a case ID is not a positive integer.
	ErrInvalidCaseID = errors.New("caseIds must contain positive integers")

	// ErrInvalidFieldID is returned when a custom field update has no field ID.
	ErrInvalidFieldID = errors.New("fieldId must be a positive integer")

	// ErrInvalidCustomFieldOp is returned when a custom field update names an
	// unknown operation.
	ErrInvalidCustomFieldOp = errors.New("custom field operation must be create, update or delete")

	// ErrInvalidStepsOperation is returned when stepsUpdates names an unknown
	// operation.
	ErrInvalidStepsOperation = errors.New("steps operation must be replace or search-replace")

	// ErrMissingNewSteps is returned when a replace operation carries no
	// newSteps list.
	ErrMissingNewSteps = errors.New("replace operation requires a newSteps list")
)

// Custom field operations.
const (
	CustomFieldCreate = "create"
	CustomFieldUpdate = "update"
	CustomFieldDelete = "delete"
)

// Steps operations.
const (
	StepsReplace       = "replace"
	StepsSearchReplace = "search-replace"
)

// RelationRef identifies a related row in a connect/disconnect delta.
type RelationRef struct {
	ID uint `json:"id"`
}

// RelationDelta lists relation rows to attach and detach. It is passed
// through to the store verbatim.
type RelationDelta struct {
	Connect    []RelationRef `json:"connect,omitempty"`
	Disconnect []RelationRef `json:"disconnect,omitempty"`
}

// FieldUpdates is the sparse standard-field patch of a bulk edit. Nil fields
// are left untouched on every targeted case.
type FieldUpdates struct {
	Name      *string        `json:"name,omitempty"`
	StateID   *uint          `json:"state,omitempty"`
	Automated *bool          `json:"automated,omitempty"`
	Estimate  *int           `json:"estimate,omitempty"`
	Tags      *RelationDelta `json:"tags,omitempty"`
	Issues    *RelationDelta `json:"issues,omitempty"`
}

// CustomFieldEdit is one create/update/delete against a custom field, applied
// independently to every targeted case.
type CustomFieldEdit struct {
	FieldID   uint   `json:"fieldId"`
	Value     JSON   `json:"value,omitempty"`
	Operation string `json:"operation"`
}

// NewStep is one replacement step in a steps replace operation.
type NewStep struct {
	Body           content.Body `json:"step"`
	ExpectedResult content.Body `json:"expectedResult"`
	Order          int          `json:"order"`
}

// StepsUpdate describes either a wholesale steps replacement or a recursive
// search/replace over each step's content trees.
type StepsUpdate struct {
	Operation      string                `json:"operation"`
	NewSteps       []NewStep             `json:"newSteps,omitempty"`
	SearchPattern  string                `json:"searchPattern,omitempty"`
	ReplacePattern string                `json:"replacePattern,omitempty"`
	SearchOptions  content.SearchOptions `json:"searchOptions,omitempty"`
}

// BulkEditRequest is one logical edit applied to many cases atomically. It is
// constructed per call, validated, consumed once and discarded.
type BulkEditRequest struct {
	CaseIDs            []uint            `json:"caseIds"`
	Updates            FieldUpdates      `json:"updates"`
	CustomFieldUpdates []CustomFieldEdit `json:"customFieldUpdates,omitempty"`
	StepsUpdates       *StepsUpdate      `json:"stepsUpdates,omitempty"`
	CreateVersions     *bool             `json:"createVersions,omitempty"`
}

// WantVersions reports whether pre-mutation snapshots should be written.
// Defaults to true when the flag is absent.
func (r *BulkEditRequest) WantVersions() bool {
	return r.CreateVersions == nil || *r.CreateVersions
}

// Validate shape-checks the whole request. The request is accepted or
// rejected as a unit; there is no partial validation.
func (r *BulkEditRequest) Validate() error {
	if len(r.CaseIDs) == 0 {
		return ErrNoCaseIDs
	}
	for _, id := range r.CaseIDs {
		if id == 0 {
			return ErrInvalidCaseID
		}
	}

	for _, edit := range r.CustomFieldUpdates {
		if edit.FieldID == 0 {
			return ErrInvalidFieldID
		}
		switch edit.Operation {
		case CustomFieldCreate, CustomFieldUpdate, CustomFieldDelete:
		default:
			return ErrInvalidCustomFieldOp
		}
	}

	if r.StepsUpdates != nil {
		switch r.StepsUpdates.Operation {
		case StepsReplace:
			if r.StepsUpdates.NewSteps == nil {
				return ErrMissingNewSteps
			}
		case StepsSearchReplace:
			// Compiling here keeps bad patterns out of the transaction.
			if _, err := r.StepsUpdates.rewriter(); err != nil {
				return err
			}
		default:
			return ErrInvalidStepsOperation
		}
	}

	return nil
}

// rewriter compiles the search/replace transform for a search-replace update.
func (u *StepsUpdate) rewriter() (*content.Rewriter, error) {
	return content.NewRewriter(u.SearchPattern, u.ReplacePattern, u.SearchOptions)
}

// IsValidationError reports whether err is a request-shape error that should
// surface as a bad request rather than an internal failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoCaseIDs) ||
		errors.Is(err, ErrInvalidCaseID) ||
		errors.Is(err, ErrInvalidFieldID) ||
		errors.Is(err, ErrInvalidCustomFieldOp) ||
		errors.Is(err, ErrInvalidStepsOperation) ||
		errors.Is(err, ErrMissingNewSteps) ||
		errors.Is(err, content.ErrEmptySearchPattern) ||
		errors.Is(err, content.ErrInvalidSearchPattern)
}

// BulkEditResult summarizes what one bulk edit changed.
type BulkEditResult struct {
	CasesUpdated        int `json:"casesUpdated"`
	VersionsCreated     int `json:"versionsCreated"`
	CustomFieldsUpdated int `json:"customFieldsUpdated"`
	StepsUpdated        int `json:"stepsUpdated"`
}
