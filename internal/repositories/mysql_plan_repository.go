package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/planea/back/internal/models"
)

// MySQLPlanRepository keeps plan history across restarts. The full plan is
// stored as a JSON payload; the indexed columns serve listing and stats.
type MySQLPlanRepository struct {
	db *sqlx.DB
}

func NewMySQLPlanRepository(db *sqlx.DB) PlanRepository {
	return &MySQLPlanRepository{db: db}
}

type planRow struct {
	ID        string    `db:"id"`
	Subject   string    `db:"subject"`
	Grade     string    `db:"grade"`
	Topic     string    `db:"topic"`
	Model     string    `db:"model"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

func (row *planRow) toModel() (*models.GeneratedLessonPlan, error) {
	var plan models.GeneratedLessonPlan
	if err := json.Unmarshal(row.Payload, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %s: %w", row.ID, err)
	}
	plan.ID = row.ID
	plan.CreatedAt = row.CreatedAt
	return &plan, nil
}

func (r *MySQLPlanRepository) Create(ctx context.Context, plan *models.GeneratedLessonPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	query := `
		INSERT INTO lesson_plans (id, subject, grade, topic, model, payload, created_at)
		VALUES (:id, :subject, :grade, :topic, :model, :payload, :created_at)
	`
	_, err = r.db.NamedExecContext(ctx, query, planRow{
		ID:        plan.ID,
		Subject:   plan.Subject,
		Grade:     plan.Grade,
		Topic:     plan.Topic,
		Model:     plan.Model,
		Payload:   payload,
		CreatedAt: plan.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *MySQLPlanRepository) GetByID(ctx context.Context, id string) (*models.GeneratedLessonPlan, error) {
	var row planRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, subject, grade, topic, model, payload, created_at
		FROM lesson_plans WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return row.toModel()
}

func (r *MySQLPlanRepository) List(ctx context.Context, limit, offset int) ([]*models.GeneratedLessonPlan, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []planRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, subject, grade, topic, model, payload, created_at
		FROM lesson_plans
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*models.GeneratedLessonPlan, 0, len(rows))
	for i := range rows {
		plan, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *MySQLPlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lesson_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type countRow struct {
	Key   string `db:"k"`
	Count int    `db:"n"`
}

func (r *MySQLPlanRepository) Stats(ctx context.Context) (*models.PlanStats, error) {
	stats := &models.PlanStats{
		BySubject: make(map[string]int),
		ByGrade:   make(map[string]int),
	}
	if err := r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM lesson_plans`); err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}

	var bySubject []countRow
	if err := r.db.SelectContext(ctx, &bySubject, `SELECT subject AS k, COUNT(*) AS n FROM lesson_plans GROUP BY subject`); err != nil {
		return nil, fmt.Errorf("failed to count plans by subject: %w", err)
	}
	for _, c := range bySubject {
		stats.BySubject[c.Key] = c.Count
	}

	var byGrade []countRow
	if err := r.db.SelectContext(ctx, &byGrade, `SELECT grade AS k, COUNT(*) AS n FROM lesson_plans GROUP BY grade`); err != nil {
		return nil, fmt.Errorf("failed to count plans by grade: %w", err)
	}
	for _, c := range byGrade {
		stats.ByGrade[c.Key] = c.Count
	}
	return stats, nil
}
