package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/planner"
)

const activityColumns = `id, user_id, title, description, day_of_week, start_time, end_time, semester, academical_year, created_at`

// ActivityRepository persists personal activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity, storing its day in canonical form.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	activity.DayOfWeek = planner.NormalizeDay(activity.DayOfWeek)
	const query = `INSERT INTO activities (id, user_id, title, description, day_of_week, start_time, end_time, semester, academical_year, created_at)
VALUES (:id, :user_id, :title, :description, :day_of_week, :start_time, :end_time, :semester, :academical_year, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListByUser returns the activities of a user in creation order.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]models.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE user_id = $1 ORDER BY created_at`
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, userID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// FindByID returns an activity by id.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE id = $1 LIMIT 1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}
	return &activity, nil
}

// Delete removes an activity.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM activities WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}
