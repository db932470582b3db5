package handlers

import (
	"errors"
	"net/http"

	"github.com/hairizuan-noorazman/caseflow/logger"
	"github.com/hairizuan-noorazman/caseflow/project"
)

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	store  project.Store
	logger logger.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(store project.Store, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		store:  store,
		logger: log,
	}
}

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles project creation requests.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateProjectRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &project.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		IsActive:    true,
	}

	if err := h.store.Create(r.Context(), p); err != nil {
		if errors.Is(err, project.ErrInvalidProjectName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to create project", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// List handles listing projects owned by the authenticated user.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := parsePagination(r)

	projects, err := h.store.ListByOwner(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list projects", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(projects, len(projects), limit, offset))
}

// GetByID handles retrieving a single project.
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	projectID, ok := parseIDOrRespond(w, r, "project_id", "project")
	if !ok {
		return
	}

	p, err := h.store.GetByIDForUser(r.Context(), projectID, userID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID,
		})
		respondError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	respondJSON(w, http.StatusOK, p)
}
