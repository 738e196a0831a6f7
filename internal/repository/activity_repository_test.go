package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
)

func TestActivityRepositoryCreateNormalizesDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("INSERT INTO activities").WillReturnResult(sqlmock.NewResult(1, 1))

	activity := &models.Activity{UserID: "u1", Title: "Job", DayOfWeek: "Thursday", StartTime: "18:00", EndTime: "22:00"}
	require.NoError(t, repo.Create(context.Background(), activity))
	assert.Equal(t, "Jeudi", activity.DayOfWeek)
	assert.NotEmpty(t, activity.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "day_of_week", "start_time", "end_time", "semester", "academical_year", "created_at"}).
		AddRow("a1", "u1", "Job", nil, "Jeudi", "18:00", "22:00", nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM activities WHERE user_id = $1 ORDER BY created_at")).
		WithArgs("u1").
		WillReturnRows(rows)

	activities, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Job", activities[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
