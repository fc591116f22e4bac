package handlers

import (
	"net/http"

	"pulse/internal/pkg/errors"
	"pulse/internal/platform/repositories"
)

// LogHandler exposes the delivery log. This is the only feedback channel for
// webhook outcomes; clients poll it rather than receiving synchronous
// delivery results.
type LogHandler struct {
	deliveries *repositories.DeliveryLogRepository
}

func NewLogHandler(deliveries *repositories.DeliveryLogRepository) *LogHandler {
	return &LogHandler{deliveries: deliveries}
}

func (h *LogHandler) ByHook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deliveries.ListByHook(params(r).ByName("id"), parseLimit(r, 100, 1000))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deliveries.ListRecent(parseLimit(r, 100, 1000))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
