package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/planea/back/internal/models"
)

type memoryPlanRepository struct {
	plans map[string]*models.GeneratedLessonPlan
	mutex sync.RWMutex
}

func NewMemoryPlanRepository() PlanRepository {
	return &memoryPlanRepository{
		plans: make(map[string]*models.GeneratedLessonPlan),
	}
}

func (r *memoryPlanRepository) Create(ctx context.Context, plan *models.GeneratedLessonPlan) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *memoryPlanRepository) GetByID(ctx context.Context, id string) (*models.GeneratedLessonPlan, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plan, exists := r.plans[id]
	if !exists {
		return nil, ErrNotFound
	}
	out := *plan
	return &out, nil
}

func (r *memoryPlanRepository) List(ctx context.Context, limit, offset int) ([]*models.GeneratedLessonPlan, error) {
	r.mutex.RLock()
	all := make([]*models.GeneratedLessonPlan, 0, len(r.plans))
	for _, p := range r.plans {
		cp := *p
		all = append(all, &cp)
	}
	r.mutex.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*models.GeneratedLessonPlan{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryPlanRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.plans[id]; !exists {
		return ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *memoryPlanRepository) Stats(ctx context.Context) (*models.PlanStats, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := &models.PlanStats{
		Total:     len(r.plans),
		BySubject: make(map[string]int),
		ByGrade:   make(map[string]int),
	}
	for _, p := range r.plans {
		stats.BySubject[p.Subject]++
		stats.ByGrade[p.Grade]++
	}
	return stats, nil
}
