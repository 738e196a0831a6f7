package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/planner"
)

const eventColumns = `ev.id, ev.creator_id, ev.title, ev.description, ev.category, ev.day_of_week, ev.start_time, ev.end_time, ev.event_date, ev.location, ev.max_participants, ev.is_public, ev.created_at,
(SELECT COUNT(*) FROM event_participants ep WHERE ep.event_id = ev.id) AS participant_count`

// Unknown days sort after Dimanche.
const weekdayOrder = `array_position(ARRAY['Lundi','Mardi','Mercredi','Jeudi','Vendredi','Samedi','Dimanche']::text[], ev.day_of_week)`

// EventRepository persists events and their participants.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListPublic returns public events filtered by category and ordered by the requested sort.
func (r *EventRepository) ListPublic(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ev WHERE ev.is_public = TRUE`
	var args []interface{}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND ev.category = $%d", len(args)+1)
		args = append(args, filter.Category)
	}

	switch filter.Sort {
	case models.EventSortRecent:
		query += " ORDER BY ev.created_at DESC"
	case models.EventSortPopularity:
		query += " ORDER BY participant_count DESC, ev.created_at DESC"
	default:
		query += " ORDER BY " + weekdayOrder + ", ev.start_time"
	}

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID returns an event with its participant count.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ev WHERE ev.id = $1 LIMIT 1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// Create inserts an event, storing its day in canonical form.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.DayOfWeek = planner.NormalizeDay(event.DayOfWeek)
	const query = `INSERT INTO events (id, creator_id, title, description, category, day_of_week, start_time, end_time, event_date, location, max_participants, is_public, created_at)
VALUES (:id, :creator_id, :title, :description, :category, :day_of_week, :start_time, :end_time, :event_date, :location, :max_participants, :is_public, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Delete removes an event; participants cascade.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// IsParticipant reports whether the user joined the event.
func (r *EventRepository) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventID, userID); err != nil {
		return false, fmt.Errorf("check event participant: %w", err)
	}
	return exists, nil
}

// AddParticipant records a participation. The event row is locked while the
// capacity is checked so concurrent joins cannot overfill it. A full event
// yields ErrEventFull, a second join by the same user ErrDuplicate and a
// missing event sql.ErrNoRows.
func (r *EventRepository) AddParticipant(ctx context.Context, participant *models.EventParticipant) (err error) {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin join transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity sql.NullInt64
	if err = tx.GetContext(ctx, &capacity, `SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`, participant.EventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("lock event: %w", err)
	}
	if capacity.Valid {
		var count int64
		if err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, participant.EventID); err != nil {
			return fmt.Errorf("count event participants: %w", err)
		}
		if count >= capacity.Int64 {
			return ErrEventFull
		}
	}

	const query = `INSERT INTO event_participants (id, event_id, user_id, joined_at) VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, query, participant.ID, participant.EventID, participant.UserID, participant.JoinedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("add event participant: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit join: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a participation and reports whether one existed.
func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	const query = `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("remove event participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove event participant: %w", err)
	}
	return affected > 0, nil
}

// ListJoinedByUser returns the events a user participates in, in join order.
func (r *EventRepository) ListJoinedByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ev JOIN event_participants p ON p.event_id = ev.id WHERE p.user_id = $1 ORDER BY p.joined_at`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("list joined events: %w", err)
	}
	return events, nil
}
