package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/repository"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
)

func studentActor() *models.Actor {
	return &models.Actor{
		User:    models.User{ID: "user-s", Username: "alice"},
		Student: &models.Student{ID: "student-1", UserID: "user-s"},
	}
}

func professorActor() *models.Actor {
	return &models.Actor{
		User:      models.User{ID: "user-p", Username: "bob"},
		Professor: &models.Professor{ID: "prof-1", UserID: "user-p"},
	}
}

func strRef(s string) *string { return &s }

func requireAppError(t *testing.T, err error, expected *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, expected.Code, appErr.Code)
	assert.Equal(t, expected.Status, appErr.Status)
}

type mockCourseRepo struct {
	courses     map[string]models.Course
	lastFilter  models.CourseFilter
	total       int
	codeExists  bool
	createErr   error
	created     *models.Course
	filterCalls int
	faculties   []models.Faculty
	studyPlans  []models.StudyPlan
	byProfessor map[string][]models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	m.lastFilter = filter
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, m.total, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.codeExists, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = "course-new"
	m.created = course
	return nil
}

func (m *mockCourseRepo) ListByProfessor(ctx context.Context, professorID string) ([]models.Course, error) {
	return m.byProfessor[professorID], nil
}

func (m *mockCourseRepo) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	m.filterCalls++
	return m.faculties, nil
}

func (m *mockCourseRepo) ListStudyPlans(ctx context.Context) ([]models.StudyPlan, error) {
	return m.studyPlans, nil
}

type mockCourseEnrollments struct {
	byCourse  map[string][]models.Enrollment
	byStudent map[string][]models.EnrollmentWithCourse
}

func (m *mockCourseEnrollments) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	return m.byCourse[courseID], nil
}

func (m *mockCourseEnrollments) ListByStudentWithCourse(ctx context.Context, studentID string, status *models.EnrollmentStatus) ([]models.EnrollmentWithCourse, error) {
	return m.byStudent[studentID], nil
}

type memoryCacheRepo struct {
	items map[string][]byte
	sets  int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.items[key] = raw
	return nil
}

func TestCourseServiceCatalogDefaults(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1", Code: "INFO-F101"}}, total: 1}
	svc := NewCourseService(repo, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})

	courses, pagination, err := svc.Catalog(context.Background(), models.CourseFilter{Sort: "random", Page: 0})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, models.CourseSortCode, repo.lastFilter.Sort)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 25, repo.lastFilter.PageSize)
	assert.Equal(t, &models.Pagination{Page: 1, PageSize: 25, TotalCount: 1}, pagination)
}

func TestCourseServiceCatalogEmptyIsNotNil(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{PageSize: 10})

	courses, pagination, err := svc.Catalog(context.Background(), models.CourseFilter{Sort: models.CourseSortCredits, Page: 3})
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 3, pagination.Page)
}

func TestCourseServiceFiltersServedFromCache(t *testing.T) {
	repo := &mockCourseRepo{
		faculties:  []models.Faculty{{ID: "f1", ExternalID: "SCIENCES", Name: "Sciences"}},
		studyPlans: []models.StudyPlan{{ID: "sp1", Label: "BA-INFO"}},
	}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	svc := NewCourseService(repo, &mockCourseEnrollments{}, cache, nil, nil, CourseConfig{})

	first, err := svc.Filters(context.Background())
	require.NoError(t, err)
	second, err := svc.Filters(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.filterCalls)
	assert.Equal(t, 1, cacheRepo.sets)
	assert.Equal(t, first, second)
	assert.Equal(t, "SCIENCES", second.Faculties[0].ExternalID)
}

func TestCourseServiceFiltersWithoutCache(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})

	filters, err := svc.Filters(context.Background())
	require.NoError(t, err)
	_, err = svc.Filters(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.filterCalls)
	assert.NotNil(t, filters.Faculties)
	assert.NotNil(t, filters.StudyPlans)
}

func TestCourseServiceDetailAggregatesFeedback(t *testing.T) {
	hours1, hours2 := 8, 12
	grade1, grade2 := 16.0, 14.0
	repo := &mockCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1", Code: "INFO-F101"}}}
	enrollments := &mockCourseEnrollments{byCourse: map[string][]models.Enrollment{
		"c1": {
			{StudentID: "student-1", Status: models.EnrollmentStatusEnrolled},
			{StudentID: "student-2", Status: models.EnrollmentStatusCompleted, WeeklyHours: &hours1, StudentGrade: &grade1},
			{StudentID: "student-3", Status: models.EnrollmentStatusCompleted, WeeklyHours: &hours2, StudentGrade: &grade2},
		},
	}}
	svc := NewCourseService(repo, enrollments, nil, nil, nil, CourseConfig{})

	detail, err := svc.Detail(context.Background(), "c1", studentActor())
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	assert.Equal(t, 1, detail.EnrolledCount)
	assert.Equal(t, 2, detail.Feedback.FeedbackCount)
	require.NotNil(t, detail.Feedback.AverageHours)
	assert.Equal(t, 10.0, *detail.Feedback.AverageHours)
	require.NotNil(t, detail.Feedback.DifficultyRating)
	assert.Equal(t, 3, *detail.Feedback.DifficultyRating)

	anonymous, err := svc.Detail(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.False(t, anonymous.IsEnrolled)
}

func TestCourseServiceDetailNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})

	_, err := svc.Detail(context.Background(), "missing", nil)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})

	course, err := svc.Create(context.Background(), professorActor(), models.CreateCourseRequest{
		Code:      " info-f101 ",
		Name:      "Programmation",
		Credits:   5,
		DayOfWeek: strRef("Monday"),
		StartTime: strRef("08:30"),
		EndTime:   strRef("10:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "INFO-F101", course.Code)
	assert.Equal(t, "prof-1", course.ProfessorID)
	assert.Equal(t, "course-new", repo.created.ID)
}

func TestCourseServiceCreateRejections(t *testing.T) {
	valid := models.CreateCourseRequest{Code: "INFO-F101", Name: "Programmation", Credits: 5}

	t.Run("students cannot create", func(t *testing.T) {
		svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		_, err := svc.Create(context.Background(), studentActor(), valid)
		requireAppError(t, err, appErrors.ErrForbidden)
	})

	t.Run("missing credits", func(t *testing.T) {
		svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		req := valid
		req.Credits = 0
		_, err := svc.Create(context.Background(), professorActor(), req)
		requireAppError(t, err, appErrors.ErrValidation)
	})

	t.Run("bad time", func(t *testing.T) {
		svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		req := valid
		req.StartTime = strRef("25:00")
		_, err := svc.Create(context.Background(), professorActor(), req)
		requireAppError(t, err, appErrors.ErrValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := NewCourseService(&mockCourseRepo{}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		req := valid
		req.StartTime = strRef("10:00")
		req.EndTime = strRef("09:00")
		_, err := svc.Create(context.Background(), professorActor(), req)
		requireAppError(t, err, appErrors.ErrValidation)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc := NewCourseService(&mockCourseRepo{codeExists: true}, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		_, err := svc.Create(context.Background(), professorActor(), valid)
		requireAppError(t, err, appErrors.ErrConflict)
	})

	t.Run("duplicate on insert", func(t *testing.T) {
		repo := &mockCourseRepo{createErr: repository.ErrDuplicate}
		svc := NewCourseService(repo, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		_, err := svc.Create(context.Background(), professorActor(), valid)
		requireAppError(t, err, appErrors.ErrConflict)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mockCourseRepo{createErr: errors.New("boom")}
		svc := NewCourseService(repo, &mockCourseEnrollments{}, nil, nil, nil, CourseConfig{})
		_, err := svc.Create(context.Background(), professorActor(), valid)
		requireAppError(t, err, appErrors.ErrInternal)
	})
}

func TestCourseServiceMyCourses(t *testing.T) {
	repo := &mockCourseRepo{byProfessor: map[string][]models.Course{"prof-1": {{ID: "c1"}}}}
	enrollments := &mockCourseEnrollments{byStudent: map[string][]models.EnrollmentWithCourse{
		"student-1": {{CourseCode: "INFO-F101"}},
	}}
	svc := NewCourseService(repo, enrollments, nil, nil, nil, CourseConfig{})

	mine, err := svc.MyCourses(context.Background(), studentActor())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, mine.Role)
	assert.Len(t, mine.Enrollments, 1)

	taught, err := svc.MyCourses(context.Background(), professorActor())
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessor, taught.Role)
	assert.Len(t, taught.Courses, 1)

	_, err = svc.MyCourses(context.Background(), &models.Actor{User: models.User{ID: "u"}})
	requireAppError(t, err, appErrors.ErrForbidden)
}
