package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/planea/back/internal/app"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/platform/logger"
)

func main() {
	// Load .env if present
	envErr := godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Warn("⚠️ .env file not found", "error", envErr)
	}
	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("❌ failed to initialize", "error", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go application.SweepChatSessions(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("🚀 Planea Backend Server starting", "port", cfg.Port, "school", cfg.SchoolName, "default_model", cfg.Gateway.DefaultModel)
	log.Info("📋 Available endpoints:")
	for _, ep := range []string{
		"GET    /health",
		"GET    /api/catalog",
		"POST   /api/lesson-plans",
		"GET    /api/lesson-plans",
		"GET    /api/lesson-plans/stats",
		"GET    /api/lesson-plans/:id",
		"DELETE /api/lesson-plans/:id",
		"GET    /api/lesson-plans/:id/{docx,pdf,image-prompts}",
		"POST   /api/export/{docx,worksheet-pdf,flashcards-pdf}",
		"POST   /api/{home-messages,assessments,adaptations,gamification}",
		"POST   /api/{worksheets,whiteboards,slides,flashcards,class-kits}",
		"POST   /api/chat/sessions",
		"GET    /api/chat/sessions/:id",
		"POST   /api/chat/sessions/:id/messages",
	} {
		log.Info("  - " + ep)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ graceful shutdown failed", "error", err)
	}
}
