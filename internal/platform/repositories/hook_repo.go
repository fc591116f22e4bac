package repositories

import (
	"database/sql"
	"strings"

	"pulse/internal/platform/models"
)

type HookRepository struct {
	db *sql.DB
}

func NewHookRepository(db *sql.DB) *HookRepository {
	return &HookRepository{db: db}
}

func (r *HookRepository) Create(h *models.Hook) error {
	if h.Method == "" {
		h.Method = "POST"
	}
	_, err := r.db.Exec(`
		INSERT INTO hooks (id, name, url, method, headers_json, body_template, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.URL, h.Method,
		nullIfEmpty(h.HeadersJSON), nullIfEmpty(h.BodyTemplate), h.Enabled)
	return err
}

// Get returns the hook or (nil, nil) when no row exists.
func (r *HookRepository) Get(id string) (*models.Hook, error) {
	row := r.db.QueryRow(
		`SELECT id, name, url, method, headers_json, body_template, enabled FROM hooks WHERE id = ?`, id)

	h, err := scanHook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *HookRepository) List() ([]*models.Hook, error) {
	rows, err := r.db.Query(
		`SELECT id, name, url, method, headers_json, body_template, enabled FROM hooks ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hooks := []*models.Hook{}
	for rows.Next() {
		h, err := scanHook(rows)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, h)
	}
	return hooks, rows.Err()
}

func (r *HookRepository) Update(h *models.Hook) error {
	_, err := r.db.Exec(`
		UPDATE hooks SET name = ?, url = ?, method = ?, headers_json = ?, body_template = ?, enabled = ?
		WHERE id = ?`,
		h.Name, h.URL, h.Method,
		nullIfEmpty(h.HeadersJSON), nullIfEmpty(h.BodyTemplate), h.Enabled, h.ID)
	return err
}

// Delete removes a hook and cascades its subscriptions. Delivery log rows
// are retained for audit.
func (r *HookRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM project_hooks WHERE hook_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM hooks WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Subscribe upserts the (project, hook) pair with the given filter and
// enabled state reset to true.
func (r *HookRepository) Subscribe(projectID, hookID, eventFilter string) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO project_hooks (project_id, hook_id, event_filter, enabled)
		VALUES (?, ?, ?, 1)`,
		projectID, hookID, nullIfEmpty(eventFilter))
	return err
}

func (r *HookRepository) GetSubscription(projectID, hookID string) (*models.Subscription, error) {
	var s models.Subscription
	var filter sql.NullString
	err := r.db.QueryRow(
		`SELECT project_id, hook_id, event_filter, enabled FROM project_hooks
		 WHERE project_id = ? AND hook_id = ?`, projectID, hookID).
		Scan(&s.ProjectID, &s.HookID, &filter, &s.Enabled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.EventFilter = filter.String
	return &s, nil
}

// UpdateSubscription applies a partial update; nil fields are left untouched.
func (r *HookRepository) UpdateSubscription(projectID, hookID string, eventFilter *string, enabled *bool) error {
	var sets []string
	var params []interface{}
	if eventFilter != nil {
		sets = append(sets, "event_filter = ?")
		params = append(params, nullIfEmpty(*eventFilter))
	}
	if enabled != nil {
		sets = append(sets, "enabled = ?")
		params = append(params, *enabled)
	}
	if len(sets) == 0 {
		return nil
	}

	params = append(params, projectID, hookID)
	_, err := r.db.Exec(
		`UPDATE project_hooks SET `+strings.Join(sets, ", ")+` WHERE project_id = ? AND hook_id = ?`,
		params...)
	return err
}

func (r *HookRepository) Unsubscribe(projectID, hookID string) error {
	_, err := r.db.Exec(
		`DELETE FROM project_hooks WHERE project_id = ? AND hook_id = ?`, projectID, hookID)
	return err
}

func (r *HookRepository) SubscriptionsForProject(projectID string) ([]*models.SubscriptionInfo, error) {
	rows, err := r.db.Query(`
		SELECT ph.project_id, ph.hook_id, ph.event_filter, ph.enabled,
		       h.name, h.url, h.enabled
		FROM project_hooks ph
		JOIN hooks h ON h.id = ph.hook_id
		WHERE ph.project_id = ?
		ORDER BY h.name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []*models.SubscriptionInfo{}
	for rows.Next() {
		var s models.SubscriptionInfo
		var filter sql.NullString
		if err := rows.Scan(&s.ProjectID, &s.HookID, &filter, &s.Enabled,
			&s.HookName, &s.URL, &s.HookEnabled); err != nil {
			return nil, err
		}
		s.EventFilter = filter.String
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

// EnabledForProject returns dispatch candidates: subscriptions joined with
// their hooks where both sides are enabled. Event filtering happens in the
// engine.
func (r *HookRepository) EnabledForProject(projectID string) ([]*models.HookSubscription, error) {
	rows, err := r.db.Query(`
		SELECT ph.event_filter,
		       h.id, h.name, h.url, h.method, h.headers_json, h.body_template
		FROM project_hooks ph
		JOIN hooks h ON h.id = ph.hook_id
		WHERE ph.project_id = ? AND ph.enabled = 1 AND h.enabled = 1`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.HookSubscription
	for rows.Next() {
		var c models.HookSubscription
		var filter, method, headers, template sql.NullString
		if err := rows.Scan(&filter, &c.HookID, &c.Name, &c.URL, &method, &headers, &template); err != nil {
			return nil, err
		}
		c.EventFilter = filter.String
		c.Method = method.String
		c.HeadersJSON = headers.String
		c.BodyTemplate = template.String
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHook(row rowScanner) (*models.Hook, error) {
	var h models.Hook
	var method, headers, template sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.URL, &method, &headers, &template, &h.Enabled); err != nil {
		return nil, err
	}
	h.Method = method.String
	h.HeadersJSON = headers.String
	h.BodyTemplate = template.String
	return &h, nil
}
