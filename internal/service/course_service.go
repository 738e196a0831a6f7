package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/planner"
	"github.com/noah-isme/unify-api/internal/repository"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/validation"
)

const catalogFiltersCacheKey = "catalog:filters"

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	ListByProfessor(ctx context.Context, professorID string) ([]models.Course, error)
	ListFaculties(ctx context.Context) ([]models.Faculty, error)
	ListStudyPlans(ctx context.Context) ([]models.StudyPlan, error)
}

type courseEnrollmentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	ListByStudentWithCourse(ctx context.Context, studentID string, status *models.EnrollmentStatus) ([]models.EnrollmentWithCourse, error)
}

// CourseConfig tunes catalog behaviour.
type CourseConfig struct {
	PageSize   int
	FiltersTTL time.Duration
}

// CourseService exposes the catalog and course level use cases.
type CourseService struct {
	repo        courseRepository
	enrollments courseEnrollmentReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	config      CourseConfig
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, enrollments courseEnrollmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config CourseConfig) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.PageSize <= 0 {
		config.PageSize = 25
	}
	return &CourseService{repo: repo, enrollments: enrollments, cache: cache, validator: validate, logger: logger, config: config}
}

// Catalog returns a page of courses with pagination metadata.
func (s *CourseService) Catalog(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.PageSize = s.config.PageSize
	switch filter.Sort {
	case models.CourseSortCode, models.CourseSortName, models.CourseSortCredits:
	default:
		filter.Sort = models.CourseSortCode
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Filters returns the catalog dropdown data, served from cache when enabled.
func (s *CourseService) Filters(ctx context.Context) (*models.CatalogFilters, error) {
	return cachedLoad(ctx, s.cache, catalogFiltersCacheKey, s.config.FiltersTTL, s.loadFilters)
}

func (s *CourseService) loadFilters(ctx context.Context) (*models.CatalogFilters, error) {
	faculties, err := s.repo.ListFaculties(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list faculties")
	}
	plans, err := s.repo.ListStudyPlans(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list study plans")
	}
	if faculties == nil {
		faculties = []models.Faculty{}
	}
	if plans == nil {
		plans = []models.StudyPlan{}
	}
	return &models.CatalogFilters{Faculties: faculties, StudyPlans: plans}, nil
}

// Detail returns the course with live feedback aggregates. actor may be nil.
func (s *CourseService) Detail(ctx context.Context, id string, actor *models.Actor) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load course enrollments")
	}

	detail := &models.CourseDetail{
		Course:        *course,
		EnrolledCount: planner.EnrolledCount(enrollments),
		Feedback:      planner.SummarizeFeedback(enrollments),
	}
	if actor != nil && actor.Student != nil {
		for _, e := range enrollments {
			if e.StudentID == actor.Student.ID {
				detail.IsEnrolled = true
				break
			}
		}
	}
	return detail, nil
}

// Create publishes a course taught by the acting professor.
func (s *CourseService) Create(ctx context.Context, actor *models.Actor, req models.CreateCourseRequest) (*models.Course, error) {
	if actor == nil || actor.Professor == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only professors can create courses")
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid course payload")
	}
	if err := validateSlotOrder(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	course := &models.Course{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Credits:        req.Credits,
		ProfessorID:    actor.Professor.ID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Semester:       req.Semester,
		AcademicalYear: req.AcademicalYear,
		FacultyID:      req.FacultyID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return nil, appErrors.Internal(err, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// MyCourses lists enrollments for students or taught courses for professors.
func (s *CourseService) MyCourses(ctx context.Context, actor *models.Actor) (*models.MyCourses, error) {
	switch actor.Role() {
	case models.RoleStudent:
		items, err := s.enrollments.ListByStudentWithCourse(ctx, actor.Student.ID, nil)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list enrollments")
		}
		if items == nil {
			items = []models.EnrollmentWithCourse{}
		}
		return &models.MyCourses{Role: models.RoleStudent, Enrollments: items}, nil
	case models.RoleProfessor:
		courses, err := s.repo.ListByProfessor(ctx, actor.Professor.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list courses")
		}
		if courses == nil {
			courses = []models.Course{}
		}
		return &models.MyCourses{Role: models.RoleProfessor, Courses: courses}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "profile incomplete")
	}
}

// validateSlotOrder rejects slots whose end is not after their start.
func validateSlotOrder(start, end *string) error {
	if start == nil || end == nil {
		return nil
	}
	s, okStart := planner.ParseMinutes(*start)
	e, okEnd := planner.ParseMinutes(*end)
	if okStart && okEnd && e <= s {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return nil
}
