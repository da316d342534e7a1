package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/planea/back/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// PlanRepository stores generated lesson plans, newest first.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.GeneratedLessonPlan) error
	GetByID(ctx context.Context, id string) (*models.GeneratedLessonPlan, error)
	List(ctx context.Context, limit, offset int) ([]*models.GeneratedLessonPlan, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.PlanStats, error)
}

// ChatRepository stores chat transcripts.
type ChatRepository interface {
	Create(ctx context.Context, session *models.ChatSession) error
	GetByID(ctx context.Context, id string) (*models.ChatSession, error)
	AppendMessages(ctx context.Context, id string, messages ...models.ChatMessage) error
	DeleteExpired(ctx context.Context, idleFor time.Duration) (int, error)
}
