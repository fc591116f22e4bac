package hooks

import (
	"time"

	"pulse/internal/platform/models"
)

// BuildContext assembles the data exposed to a hook's body template. The
// shape is fixed: templates can rely on project.*, update.*, event.type and
// timestamp resolving to a value (empty string when absent), and update is an
// empty map when the event carries no update.
func BuildContext(project *models.Project, eventType string, update *models.StatusUpdate) map[string]interface{} {
	now := time.Now().UTC().Format(time.RFC3339)

	upd := map[string]interface{}{}
	if update != nil {
		var id interface{} = ""
		if update.ID != 0 {
			id = update.ID
		}
		createdAt := update.CreatedAt
		if createdAt == "" {
			createdAt = now
		}
		upd = map[string]interface{}{
			"id":         id,
			"author":     update.Author,
			"text":       update.Text,
			"created_at": createdAt,
		}
	}

	return map[string]interface{}{
		"project": map[string]interface{}{
			"id":          project.ID,
			"name":        project.Name,
			"description": project.Description,
		},
		"update": upd,
		"event": map[string]interface{}{
			"type": eventType,
		},
		"timestamp": now,
	}
}
