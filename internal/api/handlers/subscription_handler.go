package handlers

import (
	"encoding/json"
	"net/http"

	"pulse/internal/pkg/errors"
	"pulse/internal/platform/models"
	"pulse/internal/platform/repositories"
)

type SubscriptionHandler struct {
	projects *repositories.ProjectRepository
	hooks    *repositories.HookRepository
}

func NewSubscriptionHandler(projects *repositories.ProjectRepository, hooks *repositories.HookRepository) *SubscriptionHandler {
	return &SubscriptionHandler{projects: projects, hooks: hooks}
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
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

	subs, err := h.hooks.SubscriptionsForProject(id)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
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
		HookID      string `json:"hook_id"`
		EventFilter string `json:"event_filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.HookID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "hook_id is required", nil)
		return
	}

	hook, err := h.hooks.Get(req.HookID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if hook == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Hook not found", nil)
		return
	}

	if err := h.hooks.Subscribe(id, req.HookID, req.EventFilter); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusCreated, models.Subscription{
		ProjectID:   id,
		HookID:      req.HookID,
		EventFilter: req.EventFilter,
		Enabled:     true,
	})
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ps := params(r)
	projectID := ps.ByName("id")
	hookID := ps.ByName("hook_id")

	var req struct {
		EventFilter *string `json:"event_filter"`
		Enabled     *bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.hooks.UpdateSubscription(projectID, hookID, req.EventFilter, req.Enabled); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	sub, err := h.hooks.GetSubscription(projectID, hookID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if sub == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ps := params(r)
	if err := h.hooks.Unsubscribe(ps.ByName("id"), ps.ByName("hook_id")); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
