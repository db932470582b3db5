package handlers

import (
	"errors"
	"net/http"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"github.com/hairizuan-noorazman/caseflow/project"
	"github.com/hairizuan-noorazman/caseflow/testcase"
)

// TestCaseHandler handles test case requests, including bulk edits.
type TestCaseHandler struct {
	caseStore    testcase.Store
	projectStore project.Store
	editor       *testcase.BulkEditor
	logger       logger.Logger
}

// NewTestCaseHandler creates a new test case handler.
func NewTestCaseHandler(
	caseStore testcase.Store,
	projectStore project.Store,
	editor *testcase.BulkEditor,
	log logger.Logger,
) *TestCaseHandler {
	return &TestCaseHandler{
		caseStore:    caseStore,
		projectStore: projectStore,
		editor:       editor,
		logger:       log,
	}
}

// CreateTestCaseRequest represents a test case creation request.
type CreateTestCaseRequest struct {
	Name      string             `json:"name"`
	State     uint               `json:"state"`
	Automated bool               `json:"automated"`
	Estimate  *int               `json:"estimate"`
	Steps     []testcase.NewStep `json:"steps"`
}

// BulkEditResponse is the envelope returned by a successful bulk edit.
type BulkEditResponse struct {
	Success bool                     `json:"success"`
	Result  *testcase.BulkEditResult `json:"result"`
}

// resolveProject loads the project from the path and verifies the
// authenticated user owns it. Writes the response on failure.
func (h *TestCaseHandler) resolveProject(w http.ResponseWriter, r *http.Request) (projectID uint, ok bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}

	projectID, ok = parseIDOrRespond(w, r, "project_id", "project")
	if !ok {
		return 0, false
	}

	if _, err := h.projectStore.GetByIDForUser(r.Context(), projectID, userID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return 0, false
		}
		h.logger.Error(r.Context(), "failed to resolve project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to resolve project")
		return 0, false
	}

	return projectID, true
}

// Create handles test case creation requests.
func (h *TestCaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	var req CreateTestCaseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tc := &testcase.TestCase{
		ProjectID: projectID,
		Name:      req.Name,
		StateID:   req.State,
		Automated: req.Automated,
		Estimate:  req.Estimate,
	}
	for i, step := range req.Steps {
		tc.Steps = append(tc.Steps, testcase.Step{
			Order:          i + 1,
			Body:           step.Body,
			ExpectedResult: step.ExpectedResult,
		})
	}

	if err := h.caseStore.Create(r.Context(), tc); err != nil {
		if errors.Is(err, testcase.ErrInvalidTestCaseName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to create test case", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to create test case")
		return
	}

	respondJSON(w, http.StatusCreated, tc)
}

// List handles listing test cases in a project.
func (h *TestCaseHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)

	cases, err := h.caseStore.ListByProject(r.Context(), projectID, limit, offset)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list test cases")
		return
	}

	total, err := h.caseStore.CountByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to count test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list test cases")
		return
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(cases, total, limit, offset))
}

// GetByID handles retrieving a single test case with its relations.
func (h *TestCaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	caseID, ok := parseIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	tc, err := h.caseStore.GetByID(r.Context(), projectID, caseID)
	if err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test case", map[string]interface{}{
			"error":   err.Error(),
			"case_id": caseID,
		})
		respondError(w, http.StatusInternalServerError, "failed to get test case")
		return
	}

	respondJSON(w, http.StatusOK, tc)
}

// Delete handles soft deleting a test case.
func (h *TestCaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	caseID, ok := parseIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	if err := h.caseStore.Delete(r.Context(), projectID, caseID); err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to delete test case", map[string]interface{}{
			"error":   err.Error(),
			"case_id": caseID,
		})
		respondError(w, http.StatusInternalServerError, "failed to delete test case")
		return
	}

	respondSuccess(w, "test case deleted")
}

// ListVersions handles listing a test case's version snapshots.
func (h *TestCaseHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	caseID, ok := parseIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	versions, err := h.caseStore.ListVersions(r.Context(), projectID, caseID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list versions", map[string]interface{}{
			"error":   err.Error(),
			"case_id": caseID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}

	respondJSON(w, http.StatusOK, versions)
}

// BulkEdit applies one mutation request to many test cases atomically.
func (h *TestCaseHandler) BulkEdit(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.resolveProject(w, r)
	if !ok {
		return
	}

	var req testcase.BulkEditRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.editor.Execute(r.Context(), projectID, &req)
	if err != nil {
		switch {
		case testcase.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, testcase.ErrPartialMatch):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			// Transaction failures deliberately surface no detail.
			respondError(w, http.StatusInternalServerError, "bulk edit failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, BulkEditResponse{Success: true, Result: result})
}
