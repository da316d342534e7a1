package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/utils"
)

type LessonService interface {
	GeneratePlan(ctx context.Context, req models.LessonPlanRequest) (*models.GeneratedLessonPlan, error)
	GetPlan(ctx context.Context, id string) (*models.GeneratedLessonPlan, error)
	ListPlans(ctx context.Context, limit, offset int) ([]models.PlanSummary, error)
	DeletePlan(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.PlanStats, error)
}

type lessonService struct {
	deps  Dependencies
	plans repositories.PlanRepository
	now   func() time.Time
	newID func() string
}

func NewLessonService(deps Dependencies, plans repositories.PlanRepository) LessonService {
	return &lessonService{
		deps:  deps,
		plans: plans,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *lessonService) GeneratePlan(ctx context.Context, req models.LessonPlanRequest) (*models.GeneratedLessonPlan, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, err
	}
	document, err := s.deps.decodeAttachment(req.Document)
	if err != nil {
		return nil, err
	}

	documentNote := ""
	if document != nil {
		documentNote = "\nSe adjunta un documento de referencia (libro de texto o guía). Basa los contenidos en él."
	}
	vars := map[string]string{
		"SUBJECT":         req.Subject,
		"GRADE":           req.Grade,
		"TOPIC":           req.Topic,
		"DURATION":        req.Duration,
		"BIBLICAL_FOCUS":  utils.OptionalSection("Enfoque bíblico", req.BiblicalFocus),
		"SECTION_LOCATOR": utils.OptionalSection("Sección del documento", req.SectionLocator),
		"CONTENT_FOCUS":   utils.OptionalSection("Enfoque del contenido", req.ContentFocus),
		"DOCUMENT_NOTE":   documentNote,
		"PHASES":          strings.Join(s.deps.Catalog.Phases, ", "),
	}

	s.deps.Logger.Info("📝 generating lesson plan", "subject", req.Subject, "grade", req.Grade, "topic", req.Topic, "with_document", document != nil)

	plan, res, err := generate[models.GeneratedLessonPlan](ctx, s.deps, clients.TaskLessonPlan, "lesson_plan.txt", vars, req.Model, lessonPlanSchema(s.deps.Catalog.Phases), document)
	if err != nil {
		return nil, err
	}

	// The request, not the model, is authoritative for the metadata.
	plan.ID = s.newID()
	plan.CreatedAt = s.now()
	plan.Model = res.Model
	plan.Subject = req.Subject
	plan.Grade = req.Grade
	plan.Topic = req.Topic
	plan.Duration = req.Duration

	if err := s.plans.Create(ctx, plan); err != nil {
		s.deps.Logger.Warn("⚠️ failed to store lesson plan", "plan_id", plan.ID, "error", err)
	}

	s.deps.Logger.Info("✅ lesson plan generated", "plan_id", plan.ID, "model", res.Model, "attempts", res.Attempts)
	return plan, nil
}

func (s *lessonService) GetPlan(ctx context.Context, id string) (*models.GeneratedLessonPlan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *lessonService) ListPlans(ctx context.Context, limit, offset int) ([]models.PlanSummary, error) {
	plans, err := s.plans.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]models.PlanSummary, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.Summary())
	}
	return out, nil
}

func (s *lessonService) DeletePlan(ctx context.Context, id string) error {
	return s.plans.Delete(ctx, id)
}

func (s *lessonService) Stats(ctx context.Context) (*models.PlanStats, error) {
	return s.plans.Stats(ctx)
}
