package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/repository"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/validation"
)

// MaxWeeklyHours caps self-reported workload.
const MaxWeeklyHours = 40

type enrollmentRepository interface {
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	UpdateFeedback(ctx context.Context, enrollment *models.Enrollment) error
}

type enrollmentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService manages student enrollments and their feedback.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger, now: time.Now}
}

// Enroll registers the acting student to a course.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *models.Actor, courseID string) (*models.Enrollment, error) {
	student, err := requireStudent(actor, "only students can enroll")
	if err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}

	existing, err := s.repo.FindByStudentAndCourse(ctx, student.ID, courseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
	}

	enrollment := &models.Enrollment{
		StudentID:      student.ID,
		CourseID:       courseID,
		EnrollmentDate: s.now().UTC(),
		Status:         models.EnrollmentStatusEnrolled,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, appErrors.Internal(err, "failed to enroll")
	}
	s.logger.Info("student enrolled", zap.String("student_id", student.ID), zap.String("course_id", courseID))
	return enrollment, nil
}

// Unenroll removes the acting student's enrollment.
func (s *EnrollmentService) Unenroll(ctx context.Context, actor *models.Actor, courseID string) error {
	enrollment, err := s.findOwn(ctx, actor, courseID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, enrollment.ID); err != nil {
		return appErrors.Internal(err, "failed to unenroll")
	}
	return nil
}

// SubmitFeedback moves the enrollment status and records workload and grade.
// Completing requires both weekly hours and a grade; hours above MaxWeeklyHours are capped.
func (s *EnrollmentService) SubmitFeedback(ctx context.Context, actor *models.Actor, courseID string, req models.FeedbackRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid feedback payload")
	}
	enrollment, err := s.findOwn(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if !enrollment.Status.CanTransitionTo(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "cannot move enrollment from "+string(enrollment.Status)+" to "+string(req.Status))
	}

	if req.Status == models.EnrollmentStatusCompleted {
		if req.WeeklyHours == nil || req.StudentGrade == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "weekly_hours and student_grade are required to complete a course")
		}
		hours := *req.WeeklyHours
		if hours > MaxWeeklyHours {
			hours = MaxWeeklyHours
		}
		grade := *req.StudentGrade
		completedAt := s.now().UTC()
		enrollment.WeeklyHours = &hours
		enrollment.StudentGrade = &grade
		enrollment.CompletionDate = &completedAt
	}
	enrollment.Status = req.Status

	if err := s.repo.UpdateFeedback(ctx, enrollment); err != nil {
		return nil, appErrors.Internal(err, "failed to save feedback")
	}
	return enrollment, nil
}

func (s *EnrollmentService) findOwn(ctx context.Context, actor *models.Actor, courseID string) (*models.Enrollment, error) {
	student, err := requireStudent(actor, "only students have enrollments")
	if err != nil {
		return nil, err
	}
	enrollment, err := s.repo.FindByStudentAndCourse(ctx, student.ID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "not enrolled in this course")
		}
		return nil, appErrors.Internal(err, "failed to load enrollment")
	}
	return enrollment, nil
}

func requireStudent(actor *models.Actor, message string) (*models.Student, error) {
	if actor == nil || actor.Student == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, message)
	}
	return actor.Student, nil
}
