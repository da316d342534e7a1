package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/planea/back/internal/models"
)

type memoryChatRepository struct {
	sessions map[string]*models.ChatSession
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewMemoryChatRepository() ChatRepository {
	return &memoryChatRepository{
		sessions: make(map[string]*models.ChatSession),
		now:      time.Now,
	}
}

func (r *memoryChatRepository) Create(ctx context.Context, session *models.ChatSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.ID] = copySession(session)
	return nil
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*models.ChatSession, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, ErrNotFound
	}
	return copySession(session), nil
}

func (r *memoryChatRepository) AppendMessages(ctx context.Context, id string, messages ...models.ChatMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, exists := r.sessions[id]
	if !exists {
		return ErrNotFound
	}
	session.Messages = append(session.Messages, messages...)
	session.UpdatedAt = r.now()
	return nil
}

// DeleteExpired drops sessions untouched for longer than idleFor.
func (r *memoryChatRepository) DeleteExpired(ctx context.Context, idleFor time.Duration) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cutoff := r.now().Add(-idleFor)
	removed := 0
	for id, session := range r.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func copySession(s *models.ChatSession) *models.ChatSession {
	out := *s
	out.Messages = append([]models.ChatMessage(nil), s.Messages...)
	return &out
}
