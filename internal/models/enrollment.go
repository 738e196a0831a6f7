package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusFailed    EnrollmentStatus = "failed"
)

var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentStatusEnrolled: {EnrollmentStatusCompleted, EnrollmentStatusDropped, EnrollmentStatusFailed},
}

// Valid reports whether the status belongs to the known vocabulary.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusEnrolled, EnrollmentStatusCompleted, EnrollmentStatusDropped, EnrollmentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo allows enrolled -> completed|dropped|failed and same-status updates.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range enrollmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Enrollment captures a student's registration to a course plus optional feedback.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	CourseID       string           `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	WeeklyHours    *int             `db:"weekly_hours" json:"weekly_hours,omitempty"`
	CompletionDate *time.Time       `db:"completion_date" json:"completion_date,omitempty"`
	StudentGrade   *float64         `db:"student_grade" json:"student_grade,omitempty"`
	Grade          *float64         `db:"grade" json:"grade,omitempty"`
}

// EnrollmentWithCourse enriches Enrollment with the course slot.
type EnrollmentWithCourse struct {
	Enrollment
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseName  string  `db:"course_name" json:"course_name"`
	CourseDay   *string `db:"course_day" json:"course_day,omitempty"`
	CourseStart *string `db:"course_start" json:"course_start,omitempty"`
	CourseEnd   *string `db:"course_end" json:"course_end,omitempty"`
}

// FeedbackRequest updates an enrollment status and its self-reported workload.
type FeedbackRequest struct {
	Status       EnrollmentStatus `json:"status" validate:"required,oneof=enrolled completed dropped failed"`
	WeeklyHours  *int             `json:"weekly_hours" validate:"omitempty,min=1"`
	StudentGrade *float64         `json:"student_grade" validate:"omitempty,min=0,max=20"`
}
