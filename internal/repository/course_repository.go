package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/planner"
)

const courseColumns = `c.id, c.code, c.name, c.description, c.credits, c.professor_id, c.day_of_week, c.start_time, c.end_time, c.semester, c.academical_year, c.faculty_id, c.created_at`

const defaultCatalogPageSize = 25

// CourseRepository handles persistence of catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns a catalog page together with the total matching count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := `FROM courses c LEFT JOIN faculties f ON f.id = c.faculty_id`
	var conditions []string
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, fmt.Sprintf("(c.code ILIKE $%d OR c.name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+q+"%")
	}
	if filter.FacultyExternalID != "" {
		conditions = append(conditions, fmt.Sprintf("f.external_id = $%d", len(args)+1))
		args = append(args, filter.FacultyExternalID)
	}
	if filter.StudyPlanID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM course_study_plans csp WHERE csp.course_id = c.id AND csp.study_plan_id = $%d)", len(args)+1))
		args = append(args, filter.StudyPlanID)
	} else if filter.StudyPlanExternalID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM course_study_plans csp JOIN study_plans sp ON sp.id = csp.study_plan_id WHERE csp.course_id = c.id AND sp.external_id = $%d)", len(args)+1))
		args = append(args, filter.StudyPlanExternalID)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "c.code ASC"
	switch filter.Sort {
	case models.CourseSortName:
		orderBy = "c.name ASC"
	case models.CourseSortCredits:
		orderBy = "c.credits DESC, c.code ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = defaultCatalogPageSize
	}
	offset := (page - 1) * size

	listQuery := fmt.Sprintf("SELECT %s %s%s ORDER BY %s LIMIT %d OFFSET %d", courseColumns, base, clause, orderBy, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	normalizeCourseDays(courses)
	return courses, total, nil
}

// FindByID returns a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	normalizeCourseDay(&course)
	return &course, nil
}

// ExistsByCode reports whether a course already uses the code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("check course code: %w", err)
	}
	return exists, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	normalizeCourseDay(course)
	const query = `INSERT INTO courses (id, code, name, description, credits, professor_id, day_of_week, start_time, end_time, semester, academical_year, faculty_id, created_at)
VALUES (:id, :code, :name, :description, :credits, :professor_id, :day_of_week, :start_time, :end_time, :semester, :academical_year, :faculty_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// ListByProfessor returns the courses taught by a professor ordered by code.
func (r *CourseRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.professor_id = $1 ORDER BY c.code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, professorID); err != nil {
		return nil, fmt.Errorf("list professor courses: %w", err)
	}
	normalizeCourseDays(courses)
	return courses, nil
}

// ListFaculties returns every faculty ordered by name.
func (r *CourseRepository) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT id, external_id, name FROM faculties ORDER BY name`
	var faculties []models.Faculty
	if err := r.db.SelectContext(ctx, &faculties, query); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return faculties, nil
}

// ListStudyPlans returns every study plan ordered by label.
func (r *CourseRepository) ListStudyPlans(ctx context.Context) ([]models.StudyPlan, error) {
	const query = `SELECT id, external_id, label FROM study_plans ORDER BY label`
	var plans []models.StudyPlan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list study plans: %w", err)
	}
	return plans, nil
}

// Legacy rows may carry English day names.
func normalizeCourseDay(course *models.Course) {
	if course.DayOfWeek == nil {
		return
	}
	day := planner.NormalizeDay(*course.DayOfWeek)
	course.DayOfWeek = &day
}

func normalizeCourseDays(courses []models.Course) {
	for i := range courses {
		normalizeCourseDay(&courses[i])
	}
}
