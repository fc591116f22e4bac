package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pulse/internal/engine/hooks"
	"pulse/internal/pkg/errors"
	"pulse/internal/platform/models"
	"pulse/internal/platform/repositories"
)

type MemberHandler struct {
	projects *repositories.ProjectRepository
	engine   *hooks.Engine
}

func NewMemberHandler(projects *repositories.ProjectRepository, engine *hooks.Engine) *MemberHandler {
	return &MemberHandler{projects: projects, engine: engine}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
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
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name is required", nil)
		return
	}

	role := req.Role
	if role == "" {
		role = "contributor"
	}

	if err := h.projects.AddMember(id, req.Name, role); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	// Member additions fire with a synthesized update so templates have an
	// author and a human-readable text to interpolate.
	go h.engine.FireHooks(context.Background(), id, hooks.EventMember, &models.StatusUpdate{
		Author: req.Name,
		Text:   fmt.Sprintf("%s joined as %s", req.Name, role),
	})

	writeJSON(w, http.StatusCreated, models.Member{ProjectID: id, Name: req.Name, Role: role})
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ps := params(r)
	if err := h.projects.RemoveMember(ps.ByName("id"), ps.ByName("name")); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
