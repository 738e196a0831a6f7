package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unify-api/internal/middleware"
	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/pkg/response"
)

type courseService interface {
	Catalog(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	Filters(ctx context.Context) (*models.CatalogFilters, error)
	Detail(ctx context.Context, id string, actor *models.Actor) (*models.CourseDetail, error)
	Create(ctx context.Context, actor *models.Actor, req models.CreateCourseRequest) (*models.Course, error)
	MyCourses(ctx context.Context, actor *models.Actor) (*models.MyCourses, error)
}

type enrollmentService interface {
	Enroll(ctx context.Context, actor *models.Actor, courseID string) (*models.Enrollment, error)
	Unenroll(ctx context.Context, actor *models.Actor, courseID string) error
	SubmitFeedback(ctx context.Context, actor *models.Actor, courseID string, req models.FeedbackRequest) (*models.Enrollment, error)
}

// CourseHandler exposes the course catalog and enrollment endpoints.
type CourseHandler struct {
	courses     courseService
	enrollments enrollmentService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(courses courseService, enrollments enrollmentService) *CourseHandler {
	return &CourseHandler{courses: courses, enrollments: enrollments}
}

// List godoc
// @Summary Course catalog
// @Description Search and filter the course catalog
// @Tags Courses
// @Produce json
// @Param q query string false "Search on code or name"
// @Param faculty query string false "Faculty external id"
// @Param study_plan query string false "Study plan id"
// @Param study_plan_external query string false "Study plan external id"
// @Param sort query string false "code, name or credits"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	filter := models.CourseFilter{
		Query:               c.Query("q"),
		FacultyExternalID:   c.Query("faculty"),
		StudyPlanID:         c.Query("study_plan"),
		StudyPlanExternalID: c.Query("study_plan_external"),
		Sort:                c.DefaultQuery("sort", models.CourseSortCode),
		Page:                page,
	}

	courses, pagination, err := h.courses.Catalog(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, pagination)
}

// Filters godoc
// @Summary Catalog filters
// @Description Faculties and study plans for the catalog dropdowns
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/filters [get]
func (h *CourseHandler) Filters(c *gin.Context) {
	filters, err := h.courses.Filters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filters, nil)
}

// Get godoc
// @Summary Course detail
// @Description Course with live feedback aggregates
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	detail, err := h.courses.Detail(c.Request.Context(), c.Param("id"), middleware.ActorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req models.CreateCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}

	course, err := h.courses.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Mine godoc
// @Summary My courses
// @Description Enrollments of a student or courses taught by a professor
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses/mine [get]
func (h *CourseHandler) Mine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	mine, err := h.courses.MyCourses(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mine, nil)
}

// Enroll godoc
// @Summary Enroll
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll godoc
// @Summary Unenroll
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/enroll [delete]
func (h *CourseHandler) Unenroll(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Feedback godoc
// @Summary Submit feedback
// @Description Update the enrollment status with workload and grade
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.FeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/feedback [put]
func (h *CourseHandler) Feedback(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req models.FeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}
	enrollment, err := h.enrollments.SubmitFeedback(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
