package models

// Hook is a globally defined webhook target. Projects opt in via
// subscriptions; the hook itself is not owned by any one project.
type Hook struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Method       string `json:"method"`
	HeadersJSON  string `json:"headers_json,omitempty"`
	BodyTemplate string `json:"body_template,omitempty"`
	Enabled      bool   `json:"enabled"`
}

// Subscription links a project to a hook. At most one row exists per
// (project, hook) pair; re-subscribing replaces filter and enabled state.
type Subscription struct {
	ProjectID   string `json:"project_id"`
	HookID      string `json:"hook_id"`
	EventFilter string `json:"event_filter,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// SubscriptionInfo is a subscription joined with its hook for listings.
type SubscriptionInfo struct {
	ProjectID   string `json:"project_id"`
	HookID      string `json:"hook_id"`
	EventFilter string `json:"event_filter,omitempty"`
	Enabled     bool   `json:"enabled"`
	HookName    string `json:"hook_name"`
	URL         string `json:"url"`
	HookEnabled bool   `json:"hook_enabled"`
}

// HookSubscription is a dispatch candidate: the hook fields needed to build
// one delivery, plus the subscription's event filter. Only rows where both
// sides are enabled are ever materialized.
type HookSubscription struct {
	HookID       string
	Name         string
	URL          string
	Method       string
	HeadersJSON  string
	BodyTemplate string
	EventFilter  string
}

// DeliveryLogEntry is one append-only record of a dispatch attempt. Exactly
// one of (StatusCode, ResponseBody) or Error is populated.
type DeliveryLogEntry struct {
	ID           int64  `json:"id"`
	ProjectID    string `json:"project_id"`
	HookID       string `json:"hook_id"`
	EventType    string `json:"event_type"`
	StatusCode   *int   `json:"status_code,omitempty"`
	ResponseBody string `json:"response_body,omitempty"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}
