package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/utils"
)

// classKitConcurrency bounds simultaneous model calls of one class kit.
const classKitConcurrency = 3

type ResourceService interface {
	GenerateHomeMessage(ctx context.Context, req models.HomeMessageRequest) (*models.HomeMessage, error)
	GenerateAssessment(ctx context.Context, req models.AssessmentRequest) (*models.Assessment, error)
	GenerateAdaptation(ctx context.Context, req models.AdaptationRequest) (*models.Adaptation, error)
	GenerateGamification(ctx context.Context, req models.GamificationRequest) (*models.GamificationSuggestions, error)
	GenerateWorksheet(ctx context.Context, req models.WorksheetRequest) (*models.Worksheet, error)
	GenerateWhiteboard(ctx context.Context, req models.WhiteboardRequest) (*models.WhiteboardLayout, error)
	GenerateSlides(ctx context.Context, req models.SlideDeckRequest) (*models.SlideDeck, error)
	GenerateFlashcards(ctx context.Context, req models.FlashcardRequest) (*models.FlashcardSet, error)
	GenerateClassKit(ctx context.Context, req models.ClassKitRequest) (*models.ClassKit, error)
}

type resourceService struct {
	deps  Dependencies
	plans repositories.PlanRepository
	email EmailService
}

func NewResourceService(deps Dependencies, plans repositories.PlanRepository, email EmailService) ResourceService {
	return &resourceService{deps: deps, plans: plans, email: email}
}

// prepare validates req and completes pc from the saved plan it names.
func (s *resourceService) prepare(ctx context.Context, req any, pc *models.PlanContext) error {
	if err := s.deps.Validator.Struct(req); err != nil {
		return err
	}
	if pc.PlanID != "" {
		plan, err := s.plans.GetByID(ctx, pc.PlanID)
		if err != nil {
			return err
		}
		pc.FillFrom(plan)
	}

	missing := map[string]string{}
	if strings.TrimSpace(pc.Subject) == "" {
		missing["subject"] = "subject es un campo requerido si no se indica planId"
	}
	if strings.TrimSpace(pc.Grade) == "" {
		missing["grade"] = "grade es un campo requerido si no se indica planId"
	}
	if strings.TrimSpace(pc.Topic) == "" {
		missing["topic"] = "topic es un campo requerido si no se indica planId"
	}
	if len(missing) > 0 {
		return &utils.ValidationError{Fields: missing}
	}
	return nil
}

func contextVars(pc models.PlanContext) map[string]string {
	return map[string]string{
		"SUBJECT": pc.Subject,
		"GRADE":   pc.Grade,
		"TOPIC":   pc.Topic,
		"VERSE":   utils.OptionalSection("Versículo", pc.Verse),
	}
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func (s *resourceService) GenerateHomeMessage(ctx context.Context, req models.HomeMessageRequest) (*models.HomeMessage, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	tone := req.Tone
	if tone == "" {
		tone = "cercano"
	}
	vars := contextVars(req.PlanContext)
	vars["STUDENT_NAME"] = utils.OptionalSection("Estudiante", req.StudentName)
	vars["HIGHLIGHTS"] = utils.OptionalSection("Aspectos a destacar", strings.Join(req.Highlights, "; "))
	vars["TONE"] = tone

	msg, _, err := generate[models.HomeMessage](ctx, s.deps, clients.TaskHomeMessage, "home_message.txt", vars, req.Model, homeMessageSchema())
	if err != nil {
		return nil, err
	}

	if req.SendTo != "" {
		s.deliver(msg, req.SendTo)
	}
	return msg, nil
}

// deliver e-mails msg; a delivery failure is reported on the message, the
// generated text is still returned.
func (s *resourceService) deliver(msg *models.HomeMessage, to string) {
	if s.email == nil || !s.email.Configured() {
		msg.DeliveryError = "El envío de correo no está configurado."
		return
	}
	subject := msg.SubjectLine
	if subject == "" {
		subject = "Repaso en casa"
	}
	if err := s.email.SendEmail(to, subject, msg.PlainText()); err != nil {
		s.deps.Logger.Warn("⚠️ home message delivery failed", "send_to", to, "error", err)
		msg.DeliveryError = "No se pudo enviar el correo."
		return
	}
	msg.DeliveredTo = to
}

func (s *resourceService) GenerateAssessment(ctx context.Context, req models.AssessmentRequest) (*models.Assessment, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)

	template, schema := "assessment_quiz.txt", quizSchema()
	if req.Kind == models.AssessmentRubric {
		template, schema = "assessment_rubric.txt", rubricSchema()
	} else {
		vars["QUESTION_COUNT"] = strconv.Itoa(orDefault(req.QuestionCount, 10))
	}

	out, _, err := generate[models.Assessment](ctx, s.deps, clients.TaskAssessment, template, vars, req.Model, schema)
	if err != nil {
		return nil, err
	}
	out.Kind = req.Kind
	return out, nil
}

func (s *resourceService) GenerateAdaptation(ctx context.Context, req models.AdaptationRequest) (*models.Adaptation, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)
	vars["NEEDS"] = req.Needs
	vars["ACTIVITY"] = utils.OptionalSection("Actividad a adaptar", req.Activity)

	out, _, err := generate[models.Adaptation](ctx, s.deps, clients.TaskAdaptation, "adaptation.txt", vars, req.Model, adaptationSchema())
	if err != nil {
		return nil, err
	}
	if out.Need == "" {
		out.Need = req.Needs
	}
	return out, nil
}

func (s *resourceService) GenerateGamification(ctx context.Context, req models.GamificationRequest) (*models.GamificationSuggestions, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)
	vars["GROUP_SIZE"] = ""
	if req.GroupSize > 0 {
		vars["GROUP_SIZE"] = utils.OptionalSection("Estudiantes en el aula", strconv.Itoa(req.GroupSize))
	}
	vars["DURATION"] = utils.OptionalSection("Tiempo disponible", req.Duration)

	out, _, err := generate[models.GamificationSuggestions](ctx, s.deps, clients.TaskGamification, "gamification.txt", vars, req.Model, gamificationSchema())
	return out, err
}

func (s *resourceService) GenerateWorksheet(ctx context.Context, req models.WorksheetRequest) (*models.Worksheet, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)
	vars["EXERCISE_COUNT"] = strconv.Itoa(orDefault(req.ExerciseCount, 10))

	out, _, err := generate[models.Worksheet](ctx, s.deps, clients.TaskWorksheet, "worksheet.txt", vars, req.Model, worksheetSchema())
	if err != nil {
		return nil, err
	}
	if out.Verse == "" {
		out.Verse = req.Verse
	}
	return out, nil
}

func (s *resourceService) GenerateWhiteboard(ctx context.Context, req models.WhiteboardRequest) (*models.WhiteboardLayout, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	out, _, err := generate[models.WhiteboardLayout](ctx, s.deps, clients.TaskWhiteboard, "whiteboard.txt", contextVars(req.PlanContext), req.Model, whiteboardSchema())
	return out, err
}

func (s *resourceService) GenerateSlides(ctx context.Context, req models.SlideDeckRequest) (*models.SlideDeck, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)
	vars["SLIDE_COUNT"] = strconv.Itoa(orDefault(req.SlideCount, 8))

	out, _, err := generate[models.SlideDeck](ctx, s.deps, clients.TaskSlides, "slides.txt", vars, req.Model, slideDeckSchema())
	return out, err
}

func (s *resourceService) GenerateFlashcards(ctx context.Context, req models.FlashcardRequest) (*models.FlashcardSet, error) {
	if err := s.prepare(ctx, req, &req.PlanContext); err != nil {
		return nil, err
	}
	vars := contextVars(req.PlanContext)
	vars["COUNT"] = strconv.Itoa(orDefault(req.Count, 12))

	out, _, err := generate[models.FlashcardSet](ctx, s.deps, clients.TaskFlashcards, "flashcards.txt", vars, req.Model, flashcardSchema())
	return out, err
}

// GenerateClassKit runs the selected generators for one saved plan
// concurrently. A failing item is reported in kit.Errors and does not stop
// the others; an error is returned only when every item failed.
func (s *resourceService) GenerateClassKit(ctx context.Context, req models.ClassKitRequest) (*models.ClassKit, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.plans.GetByID(ctx, req.PlanID); err != nil {
		return nil, err
	}

	items := dedupeItems(req.Items)
	pc := models.PlanContext{PlanID: req.PlanID, Model: req.Model}
	kit := &models.ClassKit{PlanID: req.PlanID}

	var (
		mu       sync.Mutex
		failures = map[string]error{}
	)
	record := func(item string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures[item] = err
	}

	var g errgroup.Group
	g.SetLimit(classKitConcurrency)
	for _, item := range items {
		g.Go(func() error {
			var err error
			switch item {
			case models.KitSlides:
				var out *models.SlideDeck
				if out, err = s.GenerateSlides(ctx, models.SlideDeckRequest{PlanContext: pc}); err == nil {
					mu.Lock()
					kit.Slides = out
					mu.Unlock()
				}
			case models.KitWorksheet:
				var out *models.Worksheet
				if out, err = s.GenerateWorksheet(ctx, models.WorksheetRequest{PlanContext: pc}); err == nil {
					mu.Lock()
					kit.Worksheet = out
					mu.Unlock()
				}
			case models.KitFlashcards:
				var out *models.FlashcardSet
				if out, err = s.GenerateFlashcards(ctx, models.FlashcardRequest{PlanContext: pc}); err == nil {
					mu.Lock()
					kit.Flashcards = out
					mu.Unlock()
				}
			case models.KitQuiz, models.KitRubric:
				var out *models.Assessment
				if out, err = s.GenerateAssessment(ctx, models.AssessmentRequest{PlanContext: pc, Kind: item}); err == nil {
					mu.Lock()
					if item == models.KitQuiz {
						kit.Quiz = out
					} else {
						kit.Rubric = out
					}
					mu.Unlock()
				}
			case models.KitGamification:
				var out *models.GamificationSuggestions
				if out, err = s.GenerateGamification(ctx, models.GamificationRequest{PlanContext: pc}); err == nil {
					mu.Lock()
					kit.Gamification = out
					mu.Unlock()
				}
			case models.KitWhiteboard:
				var out *models.WhiteboardLayout
				if out, err = s.GenerateWhiteboard(ctx, models.WhiteboardRequest{PlanContext: pc}); err == nil {
					mu.Lock()
					kit.Whiteboard = out
					mu.Unlock()
				}
			}
			if err != nil {
				record(item, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		kit.Errors = make(map[string]string, len(failures))
		for item, err := range failures {
			kit.Errors[item] = UserMessage(err)
		}
	}
	if len(failures) == len(items) {
		return nil, failures[items[0]]
	}
	s.deps.Logger.Info("🎒 class kit generated", "plan_id", req.PlanID, "items", len(items), "failed", len(failures))
	return kit, nil
}

func dedupeItems(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
