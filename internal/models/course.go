package models

import "time"

// Course is a catalog entry taught by a professor on a weekly slot.
type Course struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description,omitempty"`
	Credits        int       `db:"credits" json:"credits"`
	ProfessorID    string    `db:"professor_id" json:"professor_id"`
	DayOfWeek      *string   `db:"day_of_week" json:"day_of_week,omitempty"`
	StartTime      *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime        *string   `db:"end_time" json:"end_time,omitempty"`
	Semester       *string   `db:"semester" json:"semester,omitempty"`
	AcademicalYear *string   `db:"academical_year" json:"academical_year,omitempty"`
	FacultyID      *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Faculty groups courses under an externally identified faculty.
type Faculty struct {
	ID         string `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"external_id"`
	Name       string `db:"name" json:"name"`
}

// StudyPlan is a curriculum referencing many courses.
type StudyPlan struct {
	ID         string  `db:"id" json:"id"`
	ExternalID *string `db:"external_id" json:"external_id,omitempty"`
	Label      string  `db:"label" json:"label"`
}

// Catalog sort keys.
const (
	CourseSortCode    = "code"
	CourseSortName    = "name"
	CourseSortCredits = "credits"
)

// CourseFilter describes catalog query params.
type CourseFilter struct {
	Query               string
	FacultyExternalID   string
	StudyPlanID         string
	StudyPlanExternalID string
	Sort                string
	Page                int
	PageSize            int
}

// CatalogFilters feeds the catalog dropdowns.
type CatalogFilters struct {
	Faculties  []Faculty   `json:"faculties"`
	StudyPlans []StudyPlan `json:"study_plans"`
}

// CourseFeedback aggregates self-reported feedback of completed enrollments.
type CourseFeedback struct {
	AverageHours     *float64 `json:"average_hours"`
	AverageGrade     *float64 `json:"average_grade"`
	DifficultyRating *int     `json:"difficulty_rating"`
	FeedbackCount    int      `json:"feedback_count"`
}

// CourseDetail is the display projection of a single course.
type CourseDetail struct {
	Course
	EnrolledCount int            `json:"enrolled_count"`
	Feedback      CourseFeedback `json:"feedback"`
	IsEnrolled    bool           `json:"is_enrolled"`
}

// MyCourses lists either the student's enrollments or the professor's courses.
type MyCourses struct {
	Role        UserRole               `json:"role"`
	Enrollments []EnrollmentWithCourse `json:"enrollments,omitempty"`
	Courses     []Course               `json:"courses,omitempty"`
}

// CreateCourseRequest is the payload professors submit to publish a course.
type CreateCourseRequest struct {
	Code           string  `json:"code" validate:"required,max=20"`
	Name           string  `json:"name" validate:"required,max=200"`
	Description    *string `json:"description"`
	Credits        int     `json:"credits" validate:"required,min=1,max=60"`
	DayOfWeek      *string `json:"day_of_week" validate:"omitempty,weekday"`
	StartTime      *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime        *string `json:"end_time" validate:"omitempty,hhmm"`
	Semester       *string `json:"semester" validate:"omitempty,max=20"`
	AcademicalYear *string `json:"academical_year" validate:"omitempty,max=10"`
	FacultyID      *string `json:"faculty_id"`
}
