package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "pulse/internal/api/context"
	"pulse/internal/api/handlers"
	"pulse/internal/api/middleware"
)

type Dependencies struct {
	ProjectHandler      *handlers.ProjectHandler
	MemberHandler       *handlers.MemberHandler
	StatusHandler       *handlers.StatusHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	HookHandler         *handlers.HookHandler
	LogHandler          *handlers.LogHandler
	HealthHandler       *handlers.HealthHandler
	APIKeyMiddleware    *middleware.APIKeyMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Reads are open; writes go through the API key middleware.
	key := deps.APIKeyMiddleware

	router.GET("/health", wrap(deps.HealthHandler.Check))

	// Projects
	router.POST("/projects", chain(deps.ProjectHandler.Create, key.Handle))
	router.GET("/projects", wrap(deps.ProjectHandler.List))
	router.GET("/projects/:id", wrap(deps.ProjectHandler.Get))
	router.PUT("/projects/:id", chain(deps.ProjectHandler.Update, key.Handle))
	router.DELETE("/projects/:id", chain(deps.ProjectHandler.Archive, key.Handle))

	// Members
	router.GET("/projects/:id/members", wrap(deps.MemberHandler.List))
	router.POST("/projects/:id/members", chain(deps.MemberHandler.Add, key.Handle))
	router.DELETE("/projects/:id/members/:name", chain(deps.MemberHandler.Remove, key.Handle))

	// Status updates
	router.POST("/projects/:id/status", chain(deps.StatusHandler.Post, key.Handle))
	router.GET("/projects/:id/history", wrap(deps.StatusHandler.History))

	// Subscriptions (project <-> hook)
	router.GET("/projects/:id/notifications", wrap(deps.SubscriptionHandler.List))
	router.POST("/projects/:id/notifications", chain(deps.SubscriptionHandler.Create, key.Handle))
	router.PUT("/projects/:id/notifications/:hook_id", chain(deps.SubscriptionHandler.Update, key.Handle))
	router.DELETE("/projects/:id/notifications/:hook_id", chain(deps.SubscriptionHandler.Delete, key.Handle))

	// Hooks (global webhook definitions)
	router.GET("/hooks", wrap(deps.HookHandler.List))
	router.POST("/hooks", chain(deps.HookHandler.Create, key.Handle))
	router.GET("/hooks/:id", wrap(deps.HookHandler.Get))
	router.PUT("/hooks/:id", chain(deps.HookHandler.Update, key.Handle))
	router.DELETE("/hooks/:id", chain(deps.HookHandler.Delete, key.Handle))
	router.POST("/hooks/:id/test", chain(deps.HookHandler.Test, key.Handle))

	// Delivery log
	router.GET("/hooks/:id/log", wrap(deps.LogHandler.ByHook))
	router.GET("/hook-log", wrap(deps.LogHandler.Recent))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
