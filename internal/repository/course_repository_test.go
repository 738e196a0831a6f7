package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
)

var courseRowColumns = []string{"id", "code", "name", "description", "credits", "professor_id", "day_of_week", "start_time", "end_time", "semester", "academical_year", "faculty_id", "created_at"}

func TestCourseRepositoryListDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseRowColumns).
		AddRow("c1", "INFO-F101", "Programmation", nil, 5, "p1", "Monday", "10:00", "12:00", nil, nil, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses c LEFT JOIN faculties f ON f.id = c.faculty_id ORDER BY c.code ASC LIMIT 25 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c LEFT JOIN faculties f ON f.id = c.faculty_id")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, courses[0].DayOfWeek)
	assert.Equal(t, "Lundi", *courses[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListFiltersAndSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	where := "WHERE (c.code ILIKE $1 OR c.name ILIKE $1) AND f.external_id = $2 AND EXISTS (SELECT 1 FROM course_study_plans csp JOIN study_plans sp ON sp.id = csp.study_plan_id WHERE csp.course_id = c.id AND sp.external_id = $3)"
	mock.ExpectQuery(regexp.QuoteMeta(where + " ORDER BY c.credits DESC, c.code ASC LIMIT 10 OFFSET 10")).
		WithArgs("%algo%", "SCIENCES", "MA-INFO").
		WillReturnRows(sqlmock.NewRows(courseRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c LEFT JOIN faculties f ON f.id = c.faculty_id " + where)).
		WithArgs("%algo%", "SCIENCES", "MA-INFO").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{
		Query:               " algo ",
		FacultyExternalID:   "SCIENCES",
		StudyPlanExternalID: "MA-INFO",
		Sort:                models.CourseSortCredits,
		Page:                2,
		PageSize:            10,
	})
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses c WHERE c.id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryCreateNormalizesDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").WillReturnResult(sqlmock.NewResult(1, 1))

	day := "Friday"
	course := &models.Course{Code: "INFO-F102", Name: "Algo", Credits: 5, ProfessorID: "p1", DayOfWeek: &day}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, "Vendredi", *course.DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
