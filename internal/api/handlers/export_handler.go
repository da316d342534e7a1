package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

type ExportHandler struct {
	exports services.ExportService
	log     *logger.Logger
}

func NewExportHandler(exports services.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, log: log}
}

// SavedPlan serves GET /api/lesson-plans/:id/<format>.
func (h *ExportHandler) SavedPlan(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.exports.ExportPlan(c.Request.Context(), c.Param("id"), format)
		if err != nil {
			writeServiceError(c, h.log, err)
			return
		}
		utils.WriteFile(c, file.Filename, file.ContentType, file.Data)
	}
}

// PlanDocx serves POST /api/export/docx for a plan the client holds.
func (h *ExportHandler) PlanDocx(c *gin.Context) {
	var plan models.GeneratedLessonPlan
	if !bindJSON(c, &plan) {
		return
	}
	h.write(c)(h.exports.Export(&plan, services.FormatDocx))
}

type worksheetExport struct {
	Subject   string           `json:"subject"`
	Worksheet models.Worksheet `json:"worksheet"`
}

// POST /api/export/worksheet-pdf
func (h *ExportHandler) WorksheetPDF(c *gin.Context) {
	var req worksheetExport
	if !bindJSON(c, &req) {
		return
	}
	h.write(c)(h.exports.WorksheetPDF(&req.Worksheet, req.Subject))
}

type flashcardsExport struct {
	Subject    string              `json:"subject"`
	Flashcards models.FlashcardSet `json:"flashcards"`
}

// POST /api/export/flashcards-pdf
func (h *ExportHandler) FlashcardsPDF(c *gin.Context) {
	var req flashcardsExport
	if !bindJSON(c, &req) {
		return
	}
	h.write(c)(h.exports.FlashcardsPDF(&req.Flashcards, req.Subject))
}

func (h *ExportHandler) write(c *gin.Context) func(*models.ExportFile, error) {
	return func(file *models.ExportFile, err error) {
		if err != nil {
			writeServiceError(c, h.log, err)
			return
		}
		utils.WriteFile(c, file.Filename, file.ContentType, file.Data)
	}
}
