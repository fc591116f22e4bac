// Package hooks implements the webhook dispatch engine: it resolves which
// subscribed endpoints fire for a project event, renders each hook's payload
// from its template, performs the HTTP delivery and records the outcome.
//
// The engine is invoked fire-and-forget from request handlers; nothing in
// here ever surfaces an error to the request that triggered the event. Every
// outcome, success or failure, lands in the delivery log instead.
package hooks

import (
	"context"

	"github.com/rs/zerolog/log"
	"pulse/internal/platform/models"
	"pulse/internal/platform/repositories"
)

// Event types classifying what triggered a firing.
const (
	EventStatus  = "status"
	EventMember  = "member"
	EventArchive = "archive"
	EventEdit    = "edit"
)

type Engine struct {
	projects   *repositories.ProjectRepository
	hooks      *repositories.HookRepository
	deliveries *repositories.DeliveryLogRepository
	dispatcher *Dispatcher
}

func NewEngine(
	projects *repositories.ProjectRepository,
	hooks *repositories.HookRepository,
	deliveries *repositories.DeliveryLogRepository,
	dispatcher *Dispatcher,
) *Engine {
	return &Engine{
		projects:   projects,
		hooks:      hooks,
		deliveries: deliveries,
		dispatcher: dispatcher,
	}
}

// FireHooks delivers a project event to every matching subscription. Hooks
// are processed one at a time; a failure in one hook's pipeline is recorded
// and never prevents the remaining hooks from being attempted. Callers run
// this in its own goroutine and do not wait for it.
func (e *Engine) FireHooks(ctx context.Context, projectID, eventType string, update *models.StatusUpdate) {
	project, err := e.projects.Get(projectID)
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("hook firing: project lookup failed")
		return
	}
	if project == nil {
		// Nothing to do. A vanished project is not an error for the pipeline.
		return
	}

	candidates, err := e.hooks.EnabledForProject(projectID)
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("hook firing: subscription lookup failed")
		return
	}

	for _, sub := range candidates {
		if !MatchesFilter(sub.EventFilter, eventType) {
			continue
		}
		e.fire(ctx, project, sub, eventType, update)
	}
}

func (e *Engine) fire(ctx context.Context, project *models.Project, sub *models.HookSubscription, eventType string, update *models.StatusUpdate) {
	eventCtx := BuildContext(project, eventType, update)
	payload := EncodePayload(sub.BodyTemplate, sub.HeadersJSON, sub.HookID, eventCtx)

	result := e.dispatcher.Deliver(ctx, sub.URL, sub.Method, payload.Headers, payload.Body)
	if !result.Delivered() {
		e.deliveries.RecordFailure(project.ID, sub.HookID, eventType, result.Err.Error())
		log.Error().Err(result.Err).
			Str("hook_id", sub.HookID).
			Str("url", sub.URL).
			Msg("hook delivery failed")
		return
	}

	e.deliveries.RecordSuccess(project.ID, sub.HookID, eventType, result.StatusCode, result.Body)
	log.Info().
		Str("hook_id", sub.HookID).
		Str("url", sub.URL).
		Int("status", result.StatusCode).
		Msg("hook delivered")
}

// TestFire delivers a synthetic event to a single hook, bypassing
// subscription resolution, and returns the outcome synchronously. Used by
// the manual test endpoint.
func (e *Engine) TestFire(ctx context.Context, hook *models.Hook, project *models.Project, update *models.StatusUpdate) Result {
	eventCtx := BuildContext(project, "test", update)
	payload := EncodePayload(hook.BodyTemplate, hook.HeadersJSON, hook.ID, eventCtx)

	result := e.dispatcher.Deliver(ctx, hook.URL, hook.Method, payload.Headers, payload.Body)
	if !result.Delivered() {
		e.deliveries.RecordFailure(project.ID, hook.ID, "test", result.Err.Error())
	} else {
		e.deliveries.RecordSuccess(project.ID, hook.ID, "test", result.StatusCode, result.Body)
	}
	return result
}
