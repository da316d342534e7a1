package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

// ResourceHandler serves the classroom-material generators.
type ResourceHandler struct {
	resources services.ResourceService
	log       *logger.Logger
}

func NewResourceHandler(resources services.ResourceService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{resources: resources, log: log}
}

// handle binds Req, runs generate and writes the result.
func handle[Req any, Resp any](h *ResourceHandler, generate func(*gin.Context, Req) (Resp, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if !bindJSON(c, &req) {
			return
		}
		out, err := generate(c, req)
		if err != nil {
			writeServiceError(c, h.log, err)
			return
		}
		utils.WriteJSONResponse(c, http.StatusOK, out)
	}
}

// POST /api/home-messages
func (h *ResourceHandler) HomeMessage() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.HomeMessageRequest) (*models.HomeMessage, error) {
		return h.resources.GenerateHomeMessage(c.Request.Context(), req)
	})
}

// POST /api/assessments
func (h *ResourceHandler) Assessment() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.AssessmentRequest) (*models.Assessment, error) {
		return h.resources.GenerateAssessment(c.Request.Context(), req)
	})
}

// POST /api/adaptations
func (h *ResourceHandler) Adaptation() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.AdaptationRequest) (*models.Adaptation, error) {
		return h.resources.GenerateAdaptation(c.Request.Context(), req)
	})
}

// POST /api/gamification
func (h *ResourceHandler) Gamification() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.GamificationRequest) (*models.GamificationSuggestions, error) {
		return h.resources.GenerateGamification(c.Request.Context(), req)
	})
}

// POST /api/worksheets
func (h *ResourceHandler) Worksheet() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.WorksheetRequest) (*models.Worksheet, error) {
		return h.resources.GenerateWorksheet(c.Request.Context(), req)
	})
}

// POST /api/whiteboards
func (h *ResourceHandler) Whiteboard() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.WhiteboardRequest) (*models.WhiteboardLayout, error) {
		return h.resources.GenerateWhiteboard(c.Request.Context(), req)
	})
}

// POST /api/slides
func (h *ResourceHandler) Slides() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.SlideDeckRequest) (*models.SlideDeck, error) {
		return h.resources.GenerateSlides(c.Request.Context(), req)
	})
}

// POST /api/flashcards
func (h *ResourceHandler) Flashcards() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.FlashcardRequest) (*models.FlashcardSet, error) {
		return h.resources.GenerateFlashcards(c.Request.Context(), req)
	})
}

// POST /api/class-kits
func (h *ResourceHandler) ClassKit() gin.HandlerFunc {
	return handle(h, func(c *gin.Context, req models.ClassKitRequest) (*models.ClassKit, error) {
		return h.resources.GenerateClassKit(c.Request.Context(), req)
	})
}
