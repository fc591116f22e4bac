package repositories

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"pulse/internal/platform/models"
)

// DeliveryLogRepository appends one immutable row per dispatch attempt.
// Writes are best-effort: a failed insert must never abort the delivery that
// produced it, so Record* methods log and swallow errors.
type DeliveryLogRepository struct {
	db *sql.DB
}

func NewDeliveryLogRepository(db *sql.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{db: db}
}

// RecordSuccess logs a completed delivery. Non-2xx status codes are still
// successes at this level; the endpoint responded.
func (r *DeliveryLogRepository) RecordSuccess(projectID, hookID, eventType string, statusCode int, responseBody string) {
	_, err := r.db.Exec(`
		INSERT INTO hook_log (project_id, hook_id, event_type, status_code, response_body)
		VALUES (?, ?, ?, ?, ?)`,
		projectID, hookID, eventType, statusCode, responseBody)
	if err != nil {
		log.Error().Err(err).Str("hook_id", hookID).Msg("failed to record hook delivery")
	}
}

// RecordFailure logs a delivery that could not be completed at all.
func (r *DeliveryLogRepository) RecordFailure(projectID, hookID, eventType, errMsg string) {
	_, err := r.db.Exec(`
		INSERT INTO hook_log (project_id, hook_id, event_type, error)
		VALUES (?, ?, ?, ?)`,
		projectID, hookID, eventType, errMsg)
	if err != nil {
		log.Error().Err(err).Str("hook_id", hookID).Msg("failed to record hook failure")
	}
}

func (r *DeliveryLogRepository) ListByHook(hookID string, limit int) ([]*models.DeliveryLogEntry, error) {
	return r.query(
		`SELECT id, project_id, hook_id, event_type, status_code, response_body, error, created_at
		 FROM hook_log WHERE hook_id = ? ORDER BY created_at DESC LIMIT ?`, hookID, limit)
}

func (r *DeliveryLogRepository) ListRecent(limit int) ([]*models.DeliveryLogEntry, error) {
	return r.query(
		`SELECT id, project_id, hook_id, event_type, status_code, response_body, error, created_at
		 FROM hook_log ORDER BY created_at DESC LIMIT ?`, limit)
}

func (r *DeliveryLogRepository) query(query string, args ...interface{}) ([]*models.DeliveryLogEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.DeliveryLogEntry{}
	for rows.Next() {
		var e models.DeliveryLogEntry
		var statusCode sql.NullInt64
		var responseBody, errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.HookID, &e.EventType,
			&statusCode, &responseBody, &errMsg, &e.CreatedAt); err != nil {
			return nil, err
		}
		if statusCode.Valid {
			code := int(statusCode.Int64)
			e.StatusCode = &code
		}
		e.ResponseBody = responseBody.String
		e.Error = errMsg.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
