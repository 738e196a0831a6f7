package planner

import (
	"math"

	"github.com/noah-isme/unify-api/internal/models"
)

// SummarizeFeedback computes the course feedback block from its enrollments.
// Hours and grade averages filter independently; the count includes every
// completed enrollment even without hours or grade.
func SummarizeFeedback(enrollments []models.Enrollment) models.CourseFeedback {
	var (
		hoursSum, gradeSum     float64
		hoursCount, gradeCount int
		feedback               models.CourseFeedback
	)
	for _, e := range enrollments {
		if e.Status != models.EnrollmentStatusCompleted {
			continue
		}
		feedback.FeedbackCount++
		if e.WeeklyHours != nil {
			hoursSum += float64(*e.WeeklyHours)
			hoursCount++
		}
		if e.StudentGrade != nil {
			gradeSum += *e.StudentGrade
			gradeCount++
		}
	}
	if hoursCount > 0 {
		avg := round1(hoursSum / float64(hoursCount))
		feedback.AverageHours = &avg
		rating := DifficultyRating(avg)
		feedback.DifficultyRating = &rating
	}
	if gradeCount > 0 {
		avg := round1(gradeSum / float64(gradeCount))
		feedback.AverageGrade = &avg
	}
	return feedback
}

// DifficultyRating buckets average weekly hours into 1..5 with exclusive upper bounds.
func DifficultyRating(avgHours float64) int {
	switch {
	case avgHours < 5:
		return 1
	case avgHours < 10:
		return 2
	case avgHours < 15:
		return 3
	case avgHours < 20:
		return 4
	default:
		return 5
	}
}

// EnrolledCount counts enrollments still in progress.
func EnrolledCount(enrollments []models.Enrollment) int {
	count := 0
	for _, e := range enrollments {
		if e.Status == models.EnrollmentStatusEnrolled {
			count++
		}
	}
	return count
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
