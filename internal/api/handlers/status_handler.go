package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse/internal/engine/hooks"
	"pulse/internal/pkg/errors"
	"pulse/internal/platform/repositories"
)

type StatusHandler struct {
	projects *repositories.ProjectRepository
	engine   *hooks.Engine
}

func NewStatusHandler(projects *repositories.ProjectRepository, engine *hooks.Engine) *StatusHandler {
	return &StatusHandler{projects: projects, engine: engine}
}

func (h *StatusHandler) Post(w http.ResponseWriter, r *http.Request) {
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
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Author == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "author is required", nil)
		return
	}
	if req.Text == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "text is required", nil)
		return
	}

	update, err := h.projects.AddStatus(id, req.Author, req.Text)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	// The update is recorded regardless of what happens to deliveries.
	go h.engine.FireHooks(context.Background(), id, hooks.EventStatus, update)

	writeJSON(w, http.StatusCreated, update)
}

func (h *StatusHandler) History(w http.ResponseWriter, r *http.Request) {
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

	history, err := h.projects.History(id, parseLimit(r, 50, 500))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
