package services

import (
	"context"
	"fmt"
	"time"

	"github.com/planea/back/internal/export"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/repositories"
)

const (
	FormatDocx         = "docx"
	FormatPDF          = "pdf"
	FormatImagePrompts = "image-prompts"
)

type ExportService interface {
	// ExportPlan renders a saved plan in the given format.
	ExportPlan(ctx context.Context, id, format string) (*models.ExportFile, error)
	// Export renders a plan the caller already holds, saved or not.
	Export(plan *models.GeneratedLessonPlan, format string) (*models.ExportFile, error)
	WorksheetPDF(ws *models.Worksheet, subject string) (*models.ExportFile, error)
	FlashcardsPDF(set *models.FlashcardSet, subject string) (*models.ExportFile, error)
}

type exportService struct {
	plans      repositories.PlanRepository
	schoolName string
	log        *logger.Logger
	now        func() time.Time
}

func NewExportService(plans repositories.PlanRepository, schoolName string, log *logger.Logger) ExportService {
	return &exportService{plans: plans, schoolName: schoolName, log: log, now: time.Now}
}

func (s *exportService) info() export.DocumentInfo {
	return export.DocumentInfo{SchoolName: s.schoolName, Date: s.now()}
}

func (s *exportService) ExportPlan(ctx context.Context, id, format string) (*models.ExportFile, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Export(plan, format)
}

func (s *exportService) Export(plan *models.GeneratedLessonPlan, format string) (*models.ExportFile, error) {
	if plan == nil {
		return nil, ErrEmptyDocument
	}
	info := s.info()

	var (
		file = &models.ExportFile{}
		err  error
	)
	switch format {
	case FormatDocx:
		file.Filename = export.Filename("Planificacion", plan.Subject, info.Date, "docx")
		file.ContentType = export.ContentTypeDocx
		file.Data, err = export.LessonPlanDocx(plan, info)
	case FormatPDF:
		file.Filename = export.Filename("Planificacion", plan.Subject, info.Date, "pdf")
		file.ContentType = export.ContentTypePDF
		file.Data, err = export.LessonPlanPDF(plan, info)
	case FormatImagePrompts:
		if len(plan.ImagePrompts) == 0 {
			return nil, ErrEmptyDocument
		}
		file.Filename = export.Filename("Prompts_Imagenes", plan.Subject, info.Date, "txt")
		file.ContentType = export.ContentTypeText
		file.Data = export.ImagePromptsText(plan, info)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		s.log.Error("❌ export failed", "format", format, "plan_id", plan.ID, "error", err)
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	s.log.Info("📄 plan exported", "format", format, "plan_id", plan.ID, "bytes", len(file.Data))
	return file, nil
}

func (s *exportService) WorksheetPDF(ws *models.Worksheet, subject string) (*models.ExportFile, error) {
	if ws == nil || len(ws.Sections) == 0 {
		return nil, ErrEmptyDocument
	}
	info := s.info()
	data, err := export.WorksheetPDF(ws, info)
	if err != nil {
		s.log.Error("❌ worksheet export failed", "error", err)
		return nil, fmt.Errorf("export worksheet: %w", err)
	}
	return &models.ExportFile{
		Filename:    export.Filename("Hoja_de_trabajo", subject, info.Date, "pdf"),
		ContentType: export.ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *exportService) FlashcardsPDF(set *models.FlashcardSet, subject string) (*models.ExportFile, error) {
	if set == nil || len(set.Cards) == 0 {
		return nil, ErrEmptyDocument
	}
	info := s.info()
	data, err := export.FlashcardsPDF(set, info)
	if err != nil {
		s.log.Error("❌ flashcards export failed", "error", err)
		return nil, fmt.Errorf("export flashcards: %w", err)
	}
	return &models.ExportFile{
		Filename:    export.Filename("Tarjetas", subject, info.Date, "pdf"),
		ContentType: export.ContentTypePDF,
		Data:        data,
	}, nil
}
