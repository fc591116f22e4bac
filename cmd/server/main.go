package main

import (
	"fmt"
	"log"
	"net/http"

	"pulse/internal/api"
	"pulse/internal/api/handlers"
	"pulse/internal/api/middleware"
	"pulse/internal/engine/hooks"
	"pulse/internal/pkg/logger"
	"pulse/internal/platform/config"
	"pulse/internal/platform/database"
	"pulse/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	projectRepo := repositories.NewProjectRepository(db)
	hookRepo := repositories.NewHookRepository(db)
	deliveryLogRepo := repositories.NewDeliveryLogRepository(db)

	// Webhook engine
	dispatcher := hooks.NewDispatcher(cfg.Webhooks.DeliveryTimeout)
	engine := hooks.NewEngine(projectRepo, hookRepo, deliveryLogRepo, dispatcher)

	// Handlers
	projectHandler := handlers.NewProjectHandler(projectRepo, engine)
	memberHandler := handlers.NewMemberHandler(projectRepo, engine)
	statusHandler := handlers.NewStatusHandler(projectRepo, engine)
	subscriptionHandler := handlers.NewSubscriptionHandler(projectRepo, hookRepo)
	hookHandler := handlers.NewHookHandler(hookRepo, projectRepo, engine)
	logHandler := handlers.NewLogHandler(deliveryLogRepo)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(cfg.Auth)

	// Router
	deps := &api.Dependencies{
		ProjectHandler:      projectHandler,
		MemberHandler:       memberHandler,
		StatusHandler:       statusHandler,
		SubscriptionHandler: subscriptionHandler,
		HookHandler:         hookHandler,
		LogHandler:          logHandler,
		HealthHandler:       healthHandler,
		APIKeyMiddleware:    apiKeyMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Pulse running on http://%s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
