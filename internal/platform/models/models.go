package models

// Project is a tracked initiative. The engine reads projects but never
// mutates them.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	Archived    bool   `json:"archived"`
}

// ProjectSummary is a project row decorated with its most recent status
// update, used by the listing endpoint.
type ProjectSummary struct {
	Project
	LatestStatus string   `json:"latest_status,omitempty"`
	LatestAuthor string   `json:"latest_author,omitempty"`
	LatestAt     string   `json:"latest_at,omitempty"`
	Members      []Member `json:"members"`
}

type Member struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"member_name"`
	Role      string `json:"role"`
}

type StatusUpdate struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	Author    string `json:"author"`
	Text      string `json:"status_text"`
	CreatedAt string `json:"created_at"`
}
