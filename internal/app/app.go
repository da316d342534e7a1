// Package app wires configuration, providers, storage and services into a
// runnable application shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/planea/back/internal/api/handlers"
	"github.com/planea/back/internal/api/routes"
	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

const (
	sessionIdleTimeout = 2 * time.Hour
	sessionSweepEvery  = 10 * time.Minute
)

type App struct {
	Config  *config.AppConfig
	Log     *logger.Logger
	Catalog *config.Catalog
	Gateway *clients.Gateway

	Lessons   services.LessonService
	Resources services.ResourceService
	Chat      services.ChatService
	Exports   services.ExportService

	db *sqlx.DB
}

// NewGateway builds the model cascade with every provider that has a key.
func NewGateway(cfg *config.AppConfig, log *logger.Logger) *clients.Gateway {
	httpClient := &http.Client{Timeout: cfg.AITimeout}
	providers := map[clients.ProviderKind]clients.AIClient{
		clients.ProviderGoogle: clients.NewGoogleClient(clients.ProviderOptions{APIKey: cfg.GeminiAPIKey, HTTPClient: httpClient}),
		clients.ProviderClaude: clients.NewClaudeClient(clients.ProviderOptions{APIKey: cfg.AnthropicAPIKey, HTTPClient: httpClient}),
		clients.ProviderOpenAI: clients.NewOpenAIClient(clients.ProviderOptions{APIKey: cfg.OpenAIAPIKey, HTTPClient: httpClient}),
	}
	return clients.NewGateway(cfg.Gateway, providers, clients.NewLogObserver(log))
}

// New builds the application. With the database enabled plans are stored in
// MySQL; a failed connection falls back to memory.
func New(cfg *config.AppConfig, log *logger.Logger) (*App, error) {
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a := &App{
		Config:  cfg,
		Log:     log,
		Catalog: catalog,
		Gateway: NewGateway(cfg, log),
	}
	if !a.Gateway.Configured() {
		log.Warn("⚠️ no AI API key configured; generation requests will fail")
	}

	var plans repositories.PlanRepository
	if cfg.DatabaseEnabled {
		db, err := config.NewDatabaseWithRetry(cfg.Database, log)
		if err != nil {
			log.Error("❌ database connection failed", "error", err)
			log.Warn("⚠️ using in-memory repositories")
		} else {
			a.db = db
			plans = repositories.NewMySQLPlanRepository(db)
			log.Info("✅ MySQL plan repository initialized")
		}
	}
	if plans == nil {
		plans = repositories.NewMemoryPlanRepository()
		log.Info("✅ in-memory plan repository initialized")
	}

	deps := services.Dependencies{
		Gateway:        a.Gateway,
		Prompts:        utils.NewPromptLoader(cfg.PromptDir),
		Validator:      utils.NewValidator(catalog),
		Catalog:        catalog,
		Logger:         log,
		SchoolName:     cfg.SchoolName,
		MaxUploadBytes: cfg.MaxUploadMiB << 20,
	}
	email := services.NewEmailService(cfg.SMTP, log)
	if !email.Configured() {
		log.Info("📧 SMTP not configured; home messages will not be e-mailed")
	}

	a.Lessons = services.NewLessonService(deps, plans)
	a.Resources = services.NewResourceService(deps, plans, email)
	a.Chat = services.NewChatService(deps, repositories.NewMemoryChatRepository(), plans, cfg.ChatModels())
	a.Exports = services.NewExportService(plans, cfg.SchoolName, log)
	return a, nil
}

// Router builds the HTTP surface.
func (a *App) Router() *gin.Engine {
	return routes.NewRouter(routes.RouterConfig{
		CORSOrigins:     a.Config.CORSOrigins,
		Logger:          a.Log,
		HealthHandler:   handlers.NewHealthHandler(a.Gateway, a.Catalog),
		LessonHandler:   handlers.NewLessonHandler(a.Lessons, a.Log),
		ResourceHandler: handlers.NewResourceHandler(a.Resources, a.Log),
		ChatHandler:     handlers.NewChatHandler(a.Chat, a.Log),
		ExportHandler:   handlers.NewExportHandler(a.Exports, a.Log),
	})
}

// SweepChatSessions drops idle chat sessions until ctx is done.
func (a *App) SweepChatSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Chat.CleanupExpired(ctx, sessionIdleTimeout)
			if err != nil {
				a.Log.Warn("⚠️ chat session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				a.Log.Info("🧹 expired chat sessions removed", "count", n)
			}
		}
	}
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
