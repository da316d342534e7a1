package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/api/handlers"
	"github.com/planea/back/internal/api/middleware"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/services"
)

type RouterConfig struct {
	CORSOrigins []string
	Logger      *logger.Logger

	HealthHandler   *handlers.HealthHandler
	LessonHandler   *handlers.LessonHandler
	ResourceHandler *handlers.ResourceHandler
	ChatHandler     *handlers.ChatHandler
	ExportHandler   *handlers.ExportHandler
}

// NewRouter sets up all the routes for the application.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check endpoint
	r.GET("/", cfg.HealthHandler.Health)
	r.GET("/health", cfg.HealthHandler.Health)

	api := r.Group("/api")
	api.GET("/catalog", cfg.HealthHandler.Catalog)

	// Lesson plans
	plans := api.Group("/lesson-plans")
	{
		plans.POST("", cfg.LessonHandler.Generate)
		plans.GET("", cfg.LessonHandler.List)
		plans.GET("/stats", cfg.LessonHandler.Stats)
		plans.GET("/:id", cfg.LessonHandler.Get)
		plans.DELETE("/:id", cfg.LessonHandler.Delete)
		plans.GET("/:id/docx", cfg.ExportHandler.SavedPlan(services.FormatDocx))
		plans.GET("/:id/pdf", cfg.ExportHandler.SavedPlan(services.FormatPDF))
		plans.GET("/:id/image-prompts", cfg.ExportHandler.SavedPlan(services.FormatImagePrompts))
	}

	// Classroom materials
	api.POST("/home-messages", cfg.ResourceHandler.HomeMessage())
	api.POST("/assessments", cfg.ResourceHandler.Assessment())
	api.POST("/adaptations", cfg.ResourceHandler.Adaptation())
	api.POST("/gamification", cfg.ResourceHandler.Gamification())
	api.POST("/worksheets", cfg.ResourceHandler.Worksheet())
	api.POST("/whiteboards", cfg.ResourceHandler.Whiteboard())
	api.POST("/slides", cfg.ResourceHandler.Slides())
	api.POST("/flashcards", cfg.ResourceHandler.Flashcards())
	api.POST("/class-kits", cfg.ResourceHandler.ClassKit())

	// Exports of unsaved content
	exports := api.Group("/export")
	{
		exports.POST("/docx", cfg.ExportHandler.PlanDocx)
		exports.POST("/worksheet-pdf", cfg.ExportHandler.WorksheetPDF)
		exports.POST("/flashcards-pdf", cfg.ExportHandler.FlashcardsPDF)
	}

	// Chat assistant
	chat := api.Group("/chat/sessions")
	{
		chat.POST("", cfg.ChatHandler.StartSession)
		chat.GET("/:id", cfg.ChatHandler.GetSession)
		chat.POST("/:id/messages", cfg.ChatHandler.SendMessage)
	}

	return r
}
