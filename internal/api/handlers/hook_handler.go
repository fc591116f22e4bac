package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"pulse/internal/engine/hooks"
	"pulse/internal/pkg/errors"
	"pulse/internal/platform/models"
	"pulse/internal/platform/repositories"
)

type HookHandler struct {
	hooks    *repositories.HookRepository
	projects *repositories.ProjectRepository
	engine   *hooks.Engine
}

func NewHookHandler(hookRepo *repositories.HookRepository, projects *repositories.ProjectRepository, engine *hooks.Engine) *HookHandler {
	return &HookHandler{hooks: hookRepo, projects: projects, engine: engine}
}

func (h *HookHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.hooks.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *HookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID           string            `json:"id"`
		Name         string            `json:"name"`
		URL          string            `json:"url"`
		Method       string            `json:"method"`
		Headers      map[string]string `json:"headers"`
		BodyTemplate string            `json:"body_template"`
		Enabled      *bool             `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "id is required", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name is required", nil)
		return
	}
	if req.URL == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "url is required", nil)
		return
	}

	var headersJSON string
	if len(req.Headers) > 0 {
		encoded, err := json.Marshal(req.Headers)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid headers", nil)
			return
		}
		headersJSON = string(encoded)
	}

	hook := &models.Hook{
		ID:           req.ID,
		Name:         req.Name,
		URL:          req.URL,
		Method:       req.Method,
		HeadersJSON:  headersJSON,
		BodyTemplate: req.BodyTemplate,
		Enabled:      req.Enabled == nil || *req.Enabled,
	}

	err := h.hooks.Create(hook)
	if isUniqueViolation(err) {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Hook with that id already exists", nil)
		return
	}
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusCreated, hook)
}

func (h *HookHandler) Get(w http.ResponseWriter, r *http.Request) {
	hook, err := h.hooks.Get(params(r).ByName("id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if hook == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

func (h *HookHandler) Update(w http.ResponseWriter, r *http.Request) {
	hook, err := h.hooks.Get(params(r).ByName("id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if hook == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}

	var req struct {
		Name         *string            `json:"name"`
		URL          *string            `json:"url"`
		Method       *string            `json:"method"`
		Headers      *map[string]string `json:"headers"`
		BodyTemplate *string            `json:"body_template"`
		Enabled      *bool              `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Name != nil {
		hook.Name = *req.Name
	}
	if req.URL != nil {
		hook.URL = *req.URL
	}
	if req.Method != nil {
		hook.Method = *req.Method
	}
	if req.Headers != nil {
		if len(*req.Headers) == 0 {
			hook.HeadersJSON = ""
		} else {
			encoded, err := json.Marshal(*req.Headers)
			if err != nil {
				errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid headers", nil)
				return
			}
			hook.HeadersJSON = string(encoded)
		}
	}
	if req.BodyTemplate != nil {
		hook.BodyTemplate = *req.BodyTemplate
	}
	if req.Enabled != nil {
		hook.Enabled = *req.Enabled
	}

	if err := h.hooks.Update(hook); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, hook)
}

// Delete removes the hook and its subscriptions. Delivery log rows are
// intentionally retained as an audit trail.
func (h *HookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.hooks.Delete(params(r).ByName("id")); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Test fires a hook once with a synthetic event and reports the outcome
// synchronously, unlike the normal fire-and-forget path.
func (h *HookHandler) Test(w http.ResponseWriter, r *http.Request) {
	hook, err := h.hooks.Get(params(r).ByName("id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	if hook == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Not found", nil)
		return
	}

	var req struct {
		ProjectID string `json:"project_id"`
		Author    string `json:"author"`
		Text      string `json:"text"`
	}
	// The body is optional for test fires.
	json.NewDecoder(r.Body).Decode(&req)

	projectID := r.URL.Query().Get("project")
	if projectID == "" {
		projectID = req.ProjectID
	}

	project := &models.Project{ID: "test", Name: "Test Project", Description: "A test project"}
	if projectID != "" {
		found, err := h.projects.Get(projectID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
			return
		}
		if found != nil {
			project = found
		}
	}

	author := req.Author
	if author == "" {
		author = "test-user"
	}
	text := req.Text
	if text == "" {
		text = "Test notification from Pulse"
	}

	result := h.engine.TestFire(r.Context(), hook, project, &models.StatusUpdate{
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if !result.Delivered() {
		errors.WriteError(w, http.StatusBadGateway, errors.ErrCodeBadGateway, result.Err.Error(), nil)
		return
	}

	body := result.Body
	if len(body) > 500 {
		body = body[:500]
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Status  int    `json:"status"`
		Body    string `json:"body"`
	}{Success: true, Status: result.StatusCode, Body: body})
}
