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

const enrollmentColumns = `e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.weekly_hours, e.completion_date, e.student_grade, e.grade`

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByStudentAndCourse returns the unique enrollment of a student in a course.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE e.student_id = $1 AND e.course_id = $2 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// Create inserts a new enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, enrollment_date, status) VALUES (:id, :student_id, :course_id, :enrollment_date, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// UpdateFeedback persists status and self-reported feedback fields.
func (r *EnrollmentRepository) UpdateFeedback(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET status = :status, weekly_hours = :weekly_hours, student_grade = :student_grade, completion_date = :completion_date WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment feedback: %w", err)
	}
	return nil
}

// ListByStudentWithCourse returns a student's enrollments joined with their course slot.
// A nil status returns every enrollment.
func (r *EnrollmentRepository) ListByStudentWithCourse(ctx context.Context, studentID string, status *models.EnrollmentStatus) ([]models.EnrollmentWithCourse, error) {
	query := `SELECT ` + enrollmentColumns + `, c.code AS course_code, c.name AS course_name, c.day_of_week AS course_day, c.start_time AS course_start, c.end_time AS course_end
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.student_id = $1`
	args := []interface{}{studentID}
	if status != nil {
		query += ` AND e.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY e.enrollment_date`

	var items []models.EnrollmentWithCourse
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	for i := range items {
		if items[i].CourseDay != nil {
			day := planner.NormalizeDay(*items[i].CourseDay)
			items[i].CourseDay = &day
		}
	}
	return items, nil
}

// ListByCourse returns every enrollment of a course.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE e.course_id = $1`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}
	return enrollments, nil
}
