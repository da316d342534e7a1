package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planea/back/internal/clients"
	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/repositories"
)

type ChatService interface {
	StartSession(ctx context.Context, req models.StartChatRequest) (*models.ChatSession, error)
	SendMessage(ctx context.Context, sessionID string, req models.ChatMessageRequest) (*models.ChatReply, error)
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)
	CleanupExpired(ctx context.Context, idleFor time.Duration) (int, error)
}

type chatService struct {
	deps     Dependencies
	sessions repositories.ChatRepository
	plans    repositories.PlanRepository
	models   []string
	now      func() time.Time

	mu   sync.Mutex
	busy map[string]bool
}

// NewChatService builds the assistant. chatModels is the cascade tried for
// every message, normally a fast model followed by a slower one.
func NewChatService(deps Dependencies, sessions repositories.ChatRepository, plans repositories.PlanRepository, chatModels []string) ChatService {
	return &chatService{
		deps:     deps,
		sessions: sessions,
		plans:    plans,
		models:   chatModels,
		now:      time.Now,
		busy:     make(map[string]bool),
	}
}

func (s *chatService) StartSession(ctx context.Context, req models.StartChatRequest) (*models.ChatSession, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, err
	}
	if req.PlanID != "" {
		if _, err := s.plans.GetByID(ctx, req.PlanID); err != nil {
			return nil, err
		}
	}
	now := s.now()
	session := &models.ChatSession{
		ID:        uuid.NewString(),
		PlanID:    req.PlanID,
		Messages:  []models.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *chatService) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *chatService) CleanupExpired(ctx context.Context, idleFor time.Duration) (int, error) {
	return s.sessions.DeleteExpired(ctx, idleFor)
}

func (s *chatService) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[id] {
		return false
	}
	s.busy[id] = true
	return true
}

func (s *chatService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, id)
}

// SendMessage replays the transcript as history and appends the exchange
// only when the model answered, so the transcript always alternates.
func (s *chatService) SendMessage(ctx context.Context, sessionID string, req models.ChatMessageRequest) (*models.ChatReply, error) {
	if err := s.deps.Validator.Struct(req); err != nil {
		return nil, err
	}
	file, err := s.deps.decodeAttachment(req.File)
	if err != nil {
		return nil, err
	}

	if !s.acquire(sessionID) {
		return nil, ErrSessionBusy
	}
	defer s.release(sessionID)

	// Read under the busy flag so the replay includes every finished exchange.
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	system, err := s.deps.Prompts.LoadPrompt("chat_system.txt", map[string]string{
		"SCHOOL_NAME":  s.deps.SchoolName,
		"PLAN_CONTEXT": s.planContext(ctx, session.PlanID),
	})
	if err != nil {
		return nil, err
	}

	contents := make([]clients.Content, 0, len(session.Messages)+1)
	for _, m := range session.Messages {
		role := clients.RoleUser
		if m.Role == models.ChatRoleModel {
			role = clients.RoleModel
		}
		contents = append(contents, clients.Content{Role: role, Parts: []clients.Part{clients.TextPart(m.Text)}})
	}
	parts := []clients.Part{clients.TextPart(req.Message)}
	if file != nil {
		parts = append(parts, clients.FilePart(*file))
	}
	contents = append(contents, clients.UserContent(parts...))

	res, err := s.deps.Gateway.GenerateText(ctx, clients.GenerateRequest{
		Task:     clients.TaskChat,
		System:   system,
		Contents: contents,
	}, s.models)
	if err != nil {
		s.deps.Logger.Error("❌ chat reply failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	now := s.now()
	userMsg := models.ChatMessage{Role: models.ChatRoleUser, Text: req.Message, CreatedAt: now}
	reply := models.ChatMessage{Role: models.ChatRoleModel, Text: strings.TrimSpace(res.Text), CreatedAt: now}
	if err := s.sessions.AppendMessages(ctx, sessionID, userMsg, reply); err != nil {
		return nil, err
	}

	return &models.ChatReply{SessionID: sessionID, Reply: reply, Model: res.Model}, nil
}

// planContext summarizes the saved plan a session was opened from.
func (s *chatService) planContext(ctx context.Context, planID string) string {
	if planID == "" {
		return ""
	}
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPlan de clase de referencia:\n")
	fmt.Fprintf(&b, "Asignatura: %s\nGrado: %s\nTema: %s\n", plan.Subject, plan.Grade, plan.Topic)
	if plan.Unit != "" {
		fmt.Fprintf(&b, "Unidad: %s\n", plan.Unit)
	}
	if plan.AchievementIndicator != "" {
		fmt.Fprintf(&b, "Indicador de logro: %s\n", plan.AchievementIndicator)
	}
	if plan.FaithIntegration.Verse != "" {
		fmt.Fprintf(&b, "Versículo: %s\n", plan.FaithIntegration.Verse)
	}
	for _, step := range plan.Methodology {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", step.Phase, step.Title, step.Time)
	}
	return strings.TrimRight(b.String(), "\n")
}
