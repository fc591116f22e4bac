package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse/internal/engine/hooks"
	"pulse/internal/pkg/errors"
	"pulse/internal/pkg/slug"
	"pulse/internal/platform/models"
	"pulse/internal/platform/repositories"
)

type ProjectHandler struct {
	projects *repositories.ProjectRepository
	engine   *hooks.Engine
}

func NewProjectHandler(projects *repositories.ProjectRepository, engine *hooks.Engine) *ProjectHandler {
	return &ProjectHandler{projects: projects, engine: engine}
}

type projectResponse struct {
	*models.Project
	Members      []models.Member      `json:"members"`
	LatestStatus *models.StatusUpdate `json:"latest_status,omitempty"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Members     []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name is required", nil)
		return
	}

	projectID := req.ID
	if projectID == "" {
		projectID = slug.NewProjectID(req.Name)
	}

	err := h.projects.Create(&models.Project{ID: projectID, Name: req.Name, Description: req.Description})
	if isUniqueViolation(err) {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Project with that id already exists", nil)
		return
	}
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	for _, m := range req.Members {
		if err := h.projects.AddMember(projectID, m.Name, m.Role); err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
			return
		}
	}

	project, err := h.projects.Get(projectID)
	if err != nil || project == nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "failed to load created project", nil)
		return
	}
	members, err := h.projects.Members(projectID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusCreated, projectResponse{Project: project, Members: members})
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"

	projects, err := h.projects.List(includeArchived)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if projects == nil {
		projects = []*models.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := params(r).ByName("id")

	project, err := h.projects.Get(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if project == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}

	members, err := h.projects.Members(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	latest, err := h.projects.LatestStatus(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse{Project: project, Members: members, LatestStatus: latest})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := params(r).ByName("id")

	project, err := h.projects.Get(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if project == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Archived    *bool   `json:"archived"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.projects.UpdateFields(id, req.Name, req.Description, req.Archived); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	updated, err := h.projects.Get(id)
	if err != nil || updated == nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "failed to load updated project", nil)
		return
	}
	members, err := h.projects.Members(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	// Fire-and-forget: the response never waits on hook delivery.
	go h.engine.FireHooks(context.Background(), id, hooks.EventEdit, nil)

	writeJSON(w, http.StatusOK, projectResponse{Project: updated, Members: members})
}

func (h *ProjectHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id := params(r).ByName("id")

	project, err := h.projects.Get(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if project == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}

	if err := h.projects.Archive(id); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	go h.engine.FireHooks(context.Background(), id, hooks.EventArchive, nil)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
