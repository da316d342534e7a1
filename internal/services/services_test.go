package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/testutil"
	"github.com/planea/back/internal/utils"
)

const planJSON = "```json\n" + `{
  "unit": "Unidad 3: Números racionales",
  "achievementIndicator": "Representa fracciones equivalentes con material concreto",
  "conceptualContent": "Fracciones equivalentes",
  "faithIntegration": {"objective": "Valorar el orden", "verse": "1 Corintios 14:40", "concept": "Orden"},
  "methodology": [
    {"phase": "Orientar", "title": "Pizza", "activities": ["Dividir"], "resources": ["Cartulina"], "time": "20 min"},
    {"phase": "Aplicar", "title": "Práctica", "activities": ["Ejercicios"], "resources": [], "time": "70 min"}
  ],
  "evaluation": {"qualitative": ["Participación"], "quantitative": ["Prueba 10 pts"]},
  "resources": ["Libro"],
  "imagePrompts": ["A pizza cut in eighths"]
}` + "\n```"

func newDeps(fake *testutil.FakeAI, model string, fallbacks ...string) Dependencies {
	catalog := config.MustDefaultCatalog()
	return Dependencies{
		Gateway:        testutil.NewGateway(fake, model, fallbacks...),
		Prompts:        utils.NewPromptLoader(""),
		Validator:      utils.NewValidator(catalog),
		Catalog:        catalog,
		Logger:         logger.NewNop(),
		SchoolName:     "Colegio Betania",
		MaxUploadBytes: 16,
	}
}

func fractionsRequest() models.LessonPlanRequest {
	return models.LessonPlanRequest{
		Subject:  "Matemáticas",
		Grade:    "5to Grado",
		Topic:    "Fracciones",
		Duration: "90 min",
	}
}

func TestGeneratePlanFallsBackAfterQuotaError(t *testing.T) {
	fake := &testutil.FakeAI{
		Errors:  map[string]error{"gemini-2.5-flash": clients.NewQuotaExceededError("Gemini", 429, "quota exceeded")},
		Replies: map[string]string{"gemini-2.5-pro": planJSON},
	}
	plans := repositories.NewMemoryPlanRepository()
	svc := NewLessonService(newDeps(fake, "gemini-2.5-flash", "gemini-2.5-pro"), plans).(*lessonService)
	fixed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	plan, err := svc.GeneratePlan(context.Background(), fractionsRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, fake.Models())
	assert.Len(t, plan.ID, 36)
	assert.Equal(t, "gemini-2.5-pro", plan.Model)
	assert.Equal(t, fixed, plan.CreatedAt)
	assert.Equal(t, "Matemáticas", plan.Subject)
	assert.Equal(t, "5to Grado", plan.Grade)
	assert.Equal(t, "Fracciones", plan.Topic)
	assert.Equal(t, "90 min", plan.Duration)
	assert.Equal(t, "1 Corintios 14:40", plan.FaithIntegration.Verse)
	assert.Len(t, plan.Methodology, 2)

	saved, err := plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Unit, saved.Unit)

	call := fake.Calls()[0]
	assert.Equal(t, clients.TaskLessonPlan, call.Task)
	assert.Contains(t, call.System, "Colegio Betania")
	require.NotNil(t, call.Schema)
	prompt := call.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Tema: Fracciones")
	assert.Contains(t, prompt, "Orientar, Reflexionar, Aplicar, Evaluar")
	assert.NotContains(t, prompt, "{")

	again, err := svc.GeneratePlan(context.Background(), fractionsRequest())
	require.NoError(t, err)
	assert.NotEqual(t, plan.ID, again.ID)
}

func TestGeneratePlanValidation(t *testing.T) {
	fake := &testutil.FakeAI{}
	svc := NewLessonService(newDeps(fake, "gemini-2.5-flash"), repositories.NewMemoryPlanRepository())

	req := fractionsRequest()
	req.Subject = "Alquimia"
	req.Topic = ""
	_, err := svc.GeneratePlan(context.Background(), req)

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "subject")
	assert.Contains(t, verr.Fields, "topic")
	assert.Empty(t, fake.Calls())
}

func TestGeneratePlanMissingCredential(t *testing.T) {
	fake := &testutil.FakeAI{Unconfigured: true}
	svc := NewLessonService(newDeps(fake, "gemini-2.5-flash"), repositories.NewMemoryPlanRepository())

	_, err := svc.GeneratePlan(context.Background(), fractionsRequest())
	assert.ErrorIs(t, err, clients.ErrMissingCredential)
	assert.Empty(t, fake.Calls())
	assert.Contains(t, UserMessage(err), "clave de API")
}

func TestGeneratePlanAllModelsFail(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"a": "no json here", "b": `{"unit": "x"}`}}
	svc := NewLessonService(newDeps(fake, "a", "b"), repositories.NewMemoryPlanRepository())

	_, err := svc.GeneratePlan(context.Background(), fractionsRequest())
	assert.ErrorIs(t, err, clients.ErrAllModelsFailed)
	assert.ErrorIs(t, err, clients.ErrInvalidOutput)
	assert.Equal(t, []string{"a", "b"}, fake.Models())
}

func TestGeneratePlanAttachment(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"m": planJSON}}
	svc := NewLessonService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository())

	req := fractionsRequest()
	req.Document = &models.Attachment{Name: "libro.pdf", MimeType: "application/pdf", Data: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))}
	req.SectionLocator = "Capítulo 4"
	_, err := svc.GeneratePlan(context.Background(), req)
	require.NoError(t, err)

	parts := fake.Calls()[0].Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "Sección del documento: Capítulo 4")
	require.NotNil(t, parts[1].File)
	assert.Equal(t, []byte("%PDF-1.4"), parts[1].File.Data)

	req.Document.Data = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 17)))
	_, err = svc.GeneratePlan(context.Background(), req)
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)

	req.Document.Data = "%%%not-base64"
	_, err = svc.GeneratePlan(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidAttachment)
	assert.Len(t, fake.Calls(), 1)
}

func TestListAndDeletePlans(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"m": planJSON}}
	svc := NewLessonService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository())
	ctx := context.Background()

	plan, err := svc.GeneratePlan(ctx, fractionsRequest())
	require.NoError(t, err)

	list, err := svc.ListPlans(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, plan.ID, list[0].ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.BySubject["Matemáticas"])

	require.NoError(t, svc.DeletePlan(ctx, plan.ID))
	_, err = svc.GetPlan(ctx, plan.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func savedPlan(t *testing.T, plans repositories.PlanRepository) *models.GeneratedLessonPlan {
	t.Helper()
	plan := &models.GeneratedLessonPlan{
		ID:                   "8c6f5f8e-3b8a-4f43-9d0e-6a3c2b1d0e9f",
		CreatedAt:            time.Now(),
		Subject:              "Ciencias Naturales",
		Grade:                "3er Grado",
		Topic:                "El ciclo del agua",
		AchievementIndicator: "Describe el ciclo del agua",
		FaithIntegration:     models.FaithIntegration{Verse: "Eclesiastés 1:7"},
		Methodology:          []models.MethodologyStep{{Phase: "Orientar"}},
	}
	require.NoError(t, plans.Create(context.Background(), plan))
	return plan
}

func TestResourceFillsFromPlan(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"m": `{"title": "Agua", "cards": [{"term": "Evaporación", "definition": "Paso a vapor", "example": "Charco"}]}`}}
	plans := repositories.NewMemoryPlanRepository()
	plan := savedPlan(t, plans)
	svc := NewResourceService(newDeps(fake, "m"), plans, nil)

	set, err := svc.GenerateFlashcards(context.Background(), models.FlashcardRequest{PlanContext: models.PlanContext{PlanID: plan.ID}})
	require.NoError(t, err)
	assert.Len(t, set.Cards, 1)

	call := fake.Calls()[0]
	assert.Equal(t, clients.TaskFlashcards, call.Task)
	prompt := call.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "El ciclo del agua")
	assert.Contains(t, prompt, "3er Grado")
	assert.Contains(t, prompt, "Eclesiastés 1:7")
	assert.Contains(t, prompt, "12")
}

func TestResourceRequiresContext(t *testing.T) {
	fake := &testutil.FakeAI{}
	svc := NewResourceService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository(), nil)

	_, err := svc.GenerateWhiteboard(context.Background(), models.WhiteboardRequest{PlanContext: models.PlanContext{Subject: "Matemáticas"}})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "grade")
	assert.Contains(t, verr.Fields, "topic")

	_, err = svc.GenerateWhiteboard(context.Background(), models.WhiteboardRequest{PlanContext: models.PlanContext{PlanID: "1b4e28ba-2fa1-4d2b-883f-0016d3cca427"}})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, fake.Calls())
}

func TestAssessmentKind(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"m": `{"title": "Rúbrica", "instructions": "", "rubric": [{"criterion": "Claridad", "levels": [{"level": "Logrado", "description": "Claro", "points": 4}]}]}`}}
	svc := NewResourceService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository(), nil)

	out, err := svc.GenerateAssessment(context.Background(), models.AssessmentRequest{
		PlanContext: models.PlanContext{Subject: "Inglés", Grade: "4to Grado", Topic: "Colors"},
		Kind:        models.AssessmentRubric,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssessmentRubric, out.Kind)
	assert.Len(t, out.Rubric, 1)
}

const homeJSON = `{"subjectLine": "Repaso de fracciones", "greeting": "Estimada familia:", "body": "Esta semana aprendimos fracciones.", "activitiesAtHome": ["Cortar una fruta"], "verseReflection": "", "closing": "Bendiciones"}`

func TestHomeMessageDelivery(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"m": homeJSON}}
	email := &testutil.FakeEmail{}
	svc := NewResourceService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository(), email)
	req := models.HomeMessageRequest{
		PlanContext: models.PlanContext{Subject: "Matemáticas", Grade: "5to Grado", Topic: "Fracciones"},
		SendTo:      "familia@example.com",
	}

	msg, err := svc.GenerateHomeMessage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "familia@example.com", msg.DeliveredTo)
	require.Len(t, email.Sent, 1)
	assert.Equal(t, "Repaso de fracciones", email.Sent[0].Subject)
	assert.Contains(t, email.Sent[0].Body, "- Cortar una fruta")
	assert.Contains(t, fake.Calls()[0].Contents[0].Parts[0].Text, "cercano")

	email.Err = errors.New("smtp down")
	msg, err = svc.GenerateHomeMessage(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, msg.DeliveredTo)
	assert.NotEmpty(t, msg.DeliveryError)

	noMail := NewResourceService(newDeps(fake, "m"), repositories.NewMemoryPlanRepository(), &testutil.FakeEmail{Disabled: true})
	msg, err = noMail.GenerateHomeMessage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "El envío de correo no está configurado.", msg.DeliveryError)
}

func TestClassKitPartialFailure(t *testing.T) {
	fake := &testutil.FakeAI{
		ByTask: map[clients.Task]string{
			clients.TaskSlides:     `{"title": "Agua", "slides": [{"title": "Inicio", "bullets": ["a"], "speakerNotes": ""}]}`,
			clients.TaskWhiteboard: `{"title": "Agua", "verse": "", "zones": [{"name": "Centro", "position": "centro", "content": ["Ciclo"]}], "keyVocabulary": []}`,
		},
		TaskErrors: map[clients.Task]error{
			clients.TaskWorksheet: clients.NewRateLimitError("Fake", 429, "slow down"),
		},
	}
	plans := repositories.NewMemoryPlanRepository()
	plan := savedPlan(t, plans)
	svc := NewResourceService(newDeps(fake, "m"), plans, nil)

	kit, err := svc.GenerateClassKit(context.Background(), models.ClassKitRequest{
		PlanID: plan.ID,
		Items:  []string{models.KitSlides, models.KitWorksheet, models.KitWhiteboard, models.KitSlides},
	})
	require.NoError(t, err)
	assert.NotNil(t, kit.Slides)
	assert.NotNil(t, kit.Whiteboard)
	assert.Nil(t, kit.Worksheet)
	assert.Contains(t, kit.Errors, models.KitWorksheet)
	assert.Len(t, fake.Calls(), 3)

	_, err = svc.GenerateClassKit(context.Background(), models.ClassKitRequest{
		PlanID: plan.ID,
		Items:  []string{models.KitWorksheet},
	})
	assert.ErrorIs(t, err, clients.ErrAllModelsFailed)
}

const chatPlanID = "8c6f5f8e-3b8a-4f43-9d0e-6a3c2b1d0e9f"

func TestChatReplaysHistory(t *testing.T) {
	fake := &testutil.FakeAI{
		Errors:  map[string]error{"fast": clients.NewRateLimitError("Fake", 429, "busy")},
		Replies: map[string]string{"slow": "  Use bloques de colores.  "},
	}
	plans := repositories.NewMemoryPlanRepository()
	savedPlan(t, plans)
	svc := NewChatService(newDeps(fake, "unused"), repositories.NewMemoryChatRepository(), plans, []string{"fast", "slow"})
	ctx := context.Background()

	session, err := svc.StartSession(ctx, models.StartChatRequest{PlanID: chatPlanID})
	require.NoError(t, err)

	reply, err := svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "¿Cómo lo explico?"})
	require.NoError(t, err)
	assert.Equal(t, "slow", reply.Model)
	assert.Equal(t, "Use bloques de colores.", reply.Reply.Text)
	assert.Equal(t, []string{"fast", "slow"}, fake.Models())

	first := fake.Calls()[1]
	assert.Equal(t, clients.TaskChat, first.Task)
	assert.Contains(t, first.System, "El ciclo del agua")
	assert.Len(t, first.Contents, 1)

	_, err = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "¿Y una tarea?"})
	require.NoError(t, err)
	last := fake.Calls()[3]
	require.Len(t, last.Contents, 3)
	assert.Equal(t, clients.RoleUser, last.Contents[0].Role)
	assert.Equal(t, clients.RoleModel, last.Contents[1].Role)
	assert.Equal(t, "Use bloques de colores.", last.Contents[1].Parts[0].Text)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 4)
}

func TestChatFailureLeavesTranscript(t *testing.T) {
	fake := &testutil.FakeAI{Errors: map[string]error{"fast": clients.NewGeneralError("Fake", 500, "boom")}}
	svc := NewChatService(newDeps(fake, "unused"), repositories.NewMemoryChatRepository(), repositories.NewMemoryPlanRepository(), []string{"fast"})
	ctx := context.Background()

	session, err := svc.StartSession(ctx, models.StartChatRequest{})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "Hola"})
	assert.ErrorIs(t, err, clients.ErrAllModelsFailed)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
}

func TestChatSessionBusy(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	fake := &testutil.FakeAI{
		Replies: map[string]string{"fast": "ok"},
		Before: func(ctx context.Context, _ clients.GenerateRequest) {
			once.Do(func() { close(entered) })
			<-unblock
		},
	}
	svc := NewChatService(newDeps(fake, "unused"), repositories.NewMemoryChatRepository(), repositories.NewMemoryPlanRepository(), []string{"fast"})
	ctx := context.Background()
	session, err := svc.StartSession(ctx, models.StartChatRequest{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "uno"})
		done <- err
	}()
	<-entered

	_, err = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "dos"})
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(unblock)
	require.NoError(t, <-done)

	_, err = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "tres"})
	assert.NoError(t, err)
}

// hookedChatRepository runs onGet once, the first time a transcript is read.
type hookedChatRepository struct {
	repositories.ChatRepository
	fired bool
	onGet func()
}

func (r *hookedChatRepository) GetByID(ctx context.Context, id string) (*models.ChatSession, error) {
	if !r.fired {
		r.fired = true
		r.onGet()
	}
	return r.ChatRepository.GetByID(ctx, id)
}

func TestChatReadsTranscriptWhileHoldingSession(t *testing.T) {
	fake := &testutil.FakeAI{Replies: map[string]string{"fast": "ok"}}
	repo := &hookedChatRepository{ChatRepository: repositories.NewMemoryChatRepository()}
	svc := NewChatService(newDeps(fake, "unused"), repo, repositories.NewMemoryPlanRepository(), []string{"fast"})
	ctx := context.Background()

	session, err := svc.StartSession(ctx, models.StartChatRequest{})
	require.NoError(t, err)

	var competing error
	repo.onGet = func() {
		_, competing = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "dos"})
	}

	_, err = svc.SendMessage(ctx, session.ID, models.ChatMessageRequest{Message: "uno"})
	require.NoError(t, err)
	assert.ErrorIs(t, competing, ErrSessionBusy)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "uno", got.Messages[0].Text)
	require.Len(t, fake.Calls(), 1)
	assert.Len(t, fake.Calls()[0].Contents, 1)
}

func TestChatUnknownPlan(t *testing.T) {
	svc := NewChatService(newDeps(&testutil.FakeAI{}, "m"), repositories.NewMemoryChatRepository(), repositories.NewMemoryPlanRepository(), nil)
	_, err := svc.StartSession(context.Background(), models.StartChatRequest{PlanID: chatPlanID})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestExportService(t *testing.T) {
	plans := repositories.NewMemoryPlanRepository()
	plan := savedPlan(t, plans)
	svc := NewExportService(plans, "Colegio Betania", logger.NewNop()).(*exportService)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	file, err := svc.ExportPlan(ctx, plan.ID, FormatDocx)
	require.NoError(t, err)
	assert.Equal(t, "Planificacion_Ciencias_Naturales_2026-03-02.docx", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Data), "PK"))

	file, err = svc.ExportPlan(ctx, plan.ID, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)

	_, err = svc.ExportPlan(ctx, plan.ID, FormatImagePrompts)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = svc.ExportPlan(ctx, plan.ID, "odt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = svc.ExportPlan(ctx, "missing", FormatDocx)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.FlashcardsPDF(&models.FlashcardSet{}, "Inglés")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
