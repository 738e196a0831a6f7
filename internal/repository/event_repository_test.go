package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
)

var eventRowColumns = []string{"id", "creator_id", "title", "description", "category", "day_of_week", "start_time", "end_time", "event_date", "location", "max_participants", "is_public", "created_at", "participant_count"}

func TestEventRepositoryListPublicByPopularity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("ev1", "u1", "Foot", nil, "sport", "Jeudi", "18:00", "20:00", nil, "Campus", 10, true, time.Now(), 4)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events ev WHERE ev.is_public = TRUE AND ev.category = $1 ORDER BY participant_count DESC, ev.created_at DESC")).
		WithArgs(models.EventCategorySport).
		WillReturnRows(rows)

	events, err := repo.ListPublic(context.Background(), models.EventFilter{Category: models.EventCategorySport, Sort: models.EventSortPopularity})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 4, events[0].ParticipantCount)
	require.NotNil(t, events[0].MaxParticipants)
	assert.Equal(t, 10, *events[0].MaxParticipants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListPublicDefaultSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ev.is_public = TRUE ORDER BY array_position(")).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	events, err := repo.ListPublic(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAddParticipantLocksEventAndInserts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT max_participants FROM events WHERE id = $1 FOR UPDATE")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM event_participants WHERE event_id = $1")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO event_participants").
		WithArgs(sqlmock.AnyArg(), "ev1", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	participant := &models.EventParticipant{EventID: "ev1", UserID: "u1"}
	require.NoError(t, repo.AddParticipant(context.Background(), participant))
	assert.NotEmpty(t, participant.ID)
	assert.False(t, participant.JoinedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAddParticipantFullRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM event_participants")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), &models.EventParticipant{EventID: "ev1", UserID: "u1"})
	assert.ErrorIs(t, err, ErrEventFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAddParticipantUnlimitedSkipsCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO event_participants").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddParticipant(context.Background(), &models.EventParticipant{EventID: "ev1", UserID: "u1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAddParticipantMissingEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}))
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), &models.EventParticipant{EventID: "gone", UserID: "u1"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryAddParticipantDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("ev1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO event_participants").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.AddParticipant(context.Background(), &models.EventParticipant{EventID: "ev1", UserID: "u1"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryRemoveParticipant(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2")).
		WithArgs("ev1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.RemoveParticipant(context.Background(), "ev1", "u1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
