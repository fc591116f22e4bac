package repositories

import (
	"testing"

	"pulse/internal/platform/models"
)

func TestHookRepository_CreateAndGet(t *testing.T) {
	repo := NewHookRepository(setupTestDB(t))

	hook := &models.Hook{
		ID:           "slack",
		Name:         "Slack",
		URL:          "https://hooks.example.com/slack",
		HeadersJSON:  `{"X-Token":"abc"}`,
		BodyTemplate: `{"text":"{{{update.text}}}"}`,
		Enabled:      true,
	}
	if err := repo.Create(hook); err != nil {
		t.Fatalf("Failed to create hook: %v", err)
	}
	if hook.Method != "POST" {
		t.Errorf("Expected method to default to POST, got %s", hook.Method)
	}

	fetched, err := repo.Get("slack")
	if err != nil {
		t.Fatalf("Failed to get hook: %v", err)
	}
	if fetched == nil || fetched.URL != hook.URL || fetched.HeadersJSON != hook.HeadersJSON {
		t.Errorf("Unexpected hook: %+v", fetched)
	}

	missing, err := repo.Get("ghost")
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for missing hook, got %+v, %v", missing, err)
	}
}

func TestHookRepository_SubscribeUpsert(t *testing.T) {
	db := setupTestDB(t)
	hooks := NewHookRepository(db)
	projects := NewProjectRepository(db)

	if err := projects.Create(&models.Project{ID: "p1", Name: "Proj"}); err != nil {
		t.Fatal(err)
	}
	if err := hooks.Create(&models.Hook{ID: "h1", Name: "H", URL: "http://x", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	if err := hooks.Subscribe("p1", "h1", "status"); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	// Disable, then re-subscribe: the upsert replaces filter and re-enables.
	enabled := false
	if err := hooks.UpdateSubscription("p1", "h1", nil, &enabled); err != nil {
		t.Fatal(err)
	}
	if err := hooks.Subscribe("p1", "h1", "status,member"); err != nil {
		t.Fatal(err)
	}

	sub, err := hooks.GetSubscription("p1", "h1")
	if err != nil {
		t.Fatal(err)
	}
	if sub == nil || sub.EventFilter != "status,member" || !sub.Enabled {
		t.Errorf("Expected upserted subscription, got %+v", sub)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM project_hooks`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected one row per (project, hook) pair, got %d", count)
	}
}

func TestHookRepository_EnabledForProject(t *testing.T) {
	db := setupTestDB(t)
	hooks := NewHookRepository(db)
	projects := NewProjectRepository(db)

	if err := projects.Create(&models.Project{ID: "p1", Name: "Proj"}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		id          string
		hookEnabled bool
		subEnabled  bool
	}{
		{"both-on", true, true},
		{"hook-off", false, true},
		{"sub-off", true, false},
	}
	for _, s := range cases {
		if err := hooks.Create(&models.Hook{ID: s.id, Name: s.id, URL: "http://x", Enabled: s.hookEnabled}); err != nil {
			t.Fatal(err)
		}
		if err := hooks.Subscribe("p1", s.id, "status"); err != nil {
			t.Fatal(err)
		}
		if !s.subEnabled {
			enabled := false
			if err := hooks.UpdateSubscription("p1", s.id, nil, &enabled); err != nil {
				t.Fatal(err)
			}
		}
	}

	candidates, err := hooks.EnabledForProject("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].HookID != "both-on" {
		t.Errorf("Expected only the fully enabled pair, got %+v", candidates)
	}
	if candidates[0].EventFilter != "status" {
		t.Errorf("Expected candidate to carry its filter, got %+v", candidates[0])
	}
}

func TestHookRepository_DeleteCascadesSubscriptionsNotLog(t *testing.T) {
	db := setupTestDB(t)
	hooks := NewHookRepository(db)
	projects := NewProjectRepository(db)
	deliveries := NewDeliveryLogRepository(db)

	if err := projects.Create(&models.Project{ID: "p1", Name: "Proj"}); err != nil {
		t.Fatal(err)
	}
	if err := hooks.Create(&models.Hook{ID: "h1", Name: "H", URL: "http://x", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := hooks.Subscribe("p1", "h1", ""); err != nil {
		t.Fatal(err)
	}
	deliveries.RecordSuccess("p1", "h1", "status", 200, "ok")

	if err := hooks.Delete("h1"); err != nil {
		t.Fatalf("Failed to delete hook: %v", err)
	}

	if hook, _ := hooks.Get("h1"); hook != nil {
		t.Error("Expected hook deleted")
	}
	if sub, _ := hooks.GetSubscription("p1", "h1"); sub != nil {
		t.Error("Expected subscription cascaded")
	}

	// The delivery log is an audit trail; rows survive hook deletion.
	entries, err := deliveries.ListByHook("h1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected log row retained, got %d", len(entries))
	}
}

func TestHookRepository_UpdateClearsOptionalFields(t *testing.T) {
	repo := NewHookRepository(setupTestDB(t))

	hook := &models.Hook{ID: "h1", Name: "H", URL: "http://x", BodyTemplate: "tpl", HeadersJSON: `{"A":"b"}`, Enabled: true}
	if err := repo.Create(hook); err != nil {
		t.Fatal(err)
	}

	hook.BodyTemplate = ""
	hook.HeadersJSON = ""
	if err := repo.Update(hook); err != nil {
		t.Fatal(err)
	}

	fetched, err := repo.Get("h1")
	if err != nil {
		t.Fatal(err)
	}
	if fetched.BodyTemplate != "" || fetched.HeadersJSON != "" {
		t.Errorf("Expected cleared fields, got %+v", fetched)
	}
}
