package repositories

import (
	"database/sql"
	"strings"

	"pulse/internal/platform/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Get returns the project or (nil, nil) when no row exists. Absence is an
// expected outcome for the dispatch pipeline, not an error.
func (r *ProjectRepository) Get(id string) (*models.Project, error) {
	row := r.db.QueryRow(
		`SELECT id, name, description, created_at, archived FROM projects WHERE id = ?`, id)

	var p models.Project
	var description sql.NullString
	err := row.Scan(&p.ID, &p.Name, &description, &p.CreatedAt, &p.Archived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	return &p, nil
}

func (r *ProjectRepository) Create(p *models.Project) error {
	_, err := r.db.Exec(
		`INSERT INTO projects (id, name, description) VALUES (?, ?, ?)`,
		p.ID, p.Name, nullIfEmpty(p.Description))
	return err
}

// List returns projects decorated with their latest status update, most
// recently active first. Archived projects are included only on request.
func (r *ProjectRepository) List(includeArchived bool) ([]*models.ProjectSummary, error) {
	archivedClause := ""
	if includeArchived {
		archivedClause = "OR p.archived = 1"
	}

	rows, err := r.db.Query(`
		SELECT p.id, p.name, p.description, p.created_at, p.archived,
			(SELECT status_text FROM status_updates WHERE project_id = p.id ORDER BY created_at DESC LIMIT 1) AS latest_status,
			(SELECT author     FROM status_updates WHERE project_id = p.id ORDER BY created_at DESC LIMIT 1) AS latest_author,
			(SELECT created_at FROM status_updates WHERE project_id = p.id ORDER BY created_at DESC LIMIT 1) AS latest_at
		FROM projects p
		WHERE p.archived = 0 ` + archivedClause + `
		ORDER BY COALESCE(latest_at, p.created_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.ProjectSummary
	for rows.Next() {
		var s models.ProjectSummary
		var description, latestStatus, latestAuthor, latestAt sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.CreatedAt, &s.Archived,
			&latestStatus, &latestAuthor, &latestAt); err != nil {
			return nil, err
		}
		s.Description = description.String
		s.LatestStatus = latestStatus.String
		s.LatestAuthor = latestAuthor.String
		s.LatestAt = latestAt.String
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range summaries {
		members, err := r.Members(s.ID)
		if err != nil {
			return nil, err
		}
		s.Members = members
	}
	return summaries, nil
}

// UpdateFields applies a partial update; nil fields are left untouched.
func (r *ProjectRepository) UpdateFields(id string, name, description *string, archived *bool) error {
	var sets []string
	var params []interface{}
	if name != nil {
		sets = append(sets, "name = ?")
		params = append(params, *name)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		params = append(params, nullIfEmpty(*description))
	}
	if archived != nil {
		sets = append(sets, "archived = ?")
		params = append(params, *archived)
	}
	if len(sets) == 0 {
		return nil
	}

	params = append(params, id)
	_, err := r.db.Exec(`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, params...)
	return err
}

func (r *ProjectRepository) Archive(id string) error {
	_, err := r.db.Exec(`UPDATE projects SET archived = 1 WHERE id = ?`, id)
	return err
}

func (r *ProjectRepository) Members(projectID string) ([]models.Member, error) {
	rows, err := r.db.Query(
		`SELECT project_id, member_name, role FROM project_members WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ProjectID, &m.Name, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember inserts or replaces a membership row.
func (r *ProjectRepository) AddMember(projectID, name, role string) error {
	if role == "" {
		role = "contributor"
	}
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO project_members (project_id, member_name, role) VALUES (?, ?, ?)`,
		projectID, name, role)
	return err
}

func (r *ProjectRepository) RemoveMember(projectID, name string) error {
	_, err := r.db.Exec(
		`DELETE FROM project_members WHERE project_id = ? AND member_name = ?`, projectID, name)
	return err
}

// AddStatus records a status update and returns the stored row, including
// the database-assigned id and timestamp.
func (r *ProjectRepository) AddStatus(projectID, author, text string) (*models.StatusUpdate, error) {
	result, err := r.db.Exec(
		`INSERT INTO status_updates (project_id, author, status_text) VALUES (?, ?, ?)`,
		projectID, author, text)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	var u models.StatusUpdate
	err = r.db.QueryRow(
		`SELECT id, project_id, author, status_text, created_at FROM status_updates WHERE id = ?`, id).
		Scan(&u.ID, &u.ProjectID, &u.Author, &u.Text, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ProjectRepository) LatestStatus(projectID string) (*models.StatusUpdate, error) {
	var u models.StatusUpdate
	err := r.db.QueryRow(
		`SELECT id, project_id, author, status_text, created_at
		 FROM status_updates WHERE project_id = ? ORDER BY created_at DESC LIMIT 1`, projectID).
		Scan(&u.ID, &u.ProjectID, &u.Author, &u.Text, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ProjectRepository) History(projectID string, limit int) ([]*models.StatusUpdate, error) {
	rows, err := r.db.Query(
		`SELECT id, project_id, author, status_text, created_at
		 FROM status_updates WHERE project_id = ? ORDER BY created_at DESC LIMIT ?`,
		projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updates := []*models.StatusUpdate{}
	for rows.Next() {
		var u models.StatusUpdate
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Author, &u.Text, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, &u)
	}
	return updates, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
