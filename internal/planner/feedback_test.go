package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func completed(hours *int, grade *float64) models.Enrollment {
	return models.Enrollment{Status: models.EnrollmentStatusCompleted, WeeklyHours: hours, StudentGrade: grade}
}

func TestSummarizeFeedback(t *testing.T) {
	enrollments := []models.Enrollment{
		completed(intPtr(8), floatPtr(16)),
		completed(intPtr(12), floatPtr(14)),
		{Status: models.EnrollmentStatusEnrolled},
	}

	fb := SummarizeFeedback(enrollments)

	require.NotNil(t, fb.AverageHours)
	require.NotNil(t, fb.AverageGrade)
	require.NotNil(t, fb.DifficultyRating)
	assert.Equal(t, 10.0, *fb.AverageHours)
	assert.Equal(t, 15.0, *fb.AverageGrade)
	assert.Equal(t, 3, *fb.DifficultyRating)
	assert.Equal(t, 2, fb.FeedbackCount)
}

func TestSummarizeFeedbackWithoutCompletions(t *testing.T) {
	fb := SummarizeFeedback([]models.Enrollment{
		{Status: models.EnrollmentStatusEnrolled, WeeklyHours: intPtr(10)},
		{Status: models.EnrollmentStatusDropped, StudentGrade: floatPtr(12)},
	})

	assert.Nil(t, fb.AverageHours)
	assert.Nil(t, fb.AverageGrade)
	assert.Nil(t, fb.DifficultyRating)
	assert.Zero(t, fb.FeedbackCount)
}

func TestSummarizeFeedbackFiltersIndependently(t *testing.T) {
	fb := SummarizeFeedback([]models.Enrollment{
		completed(intPtr(4), nil),
		completed(nil, floatPtr(11)),
		completed(nil, nil),
	})

	require.NotNil(t, fb.AverageHours)
	require.NotNil(t, fb.AverageGrade)
	assert.Equal(t, 4.0, *fb.AverageHours)
	assert.Equal(t, 11.0, *fb.AverageGrade)
	assert.Equal(t, 1, *fb.DifficultyRating)
	assert.Equal(t, 3, fb.FeedbackCount)
}

func TestSummarizeFeedbackRoundsToOneDecimal(t *testing.T) {
	fb := SummarizeFeedback([]models.Enrollment{
		completed(intPtr(3), floatPtr(13)),
		completed(intPtr(4), floatPtr(14)),
		completed(intPtr(4), floatPtr(14)),
	})

	assert.Equal(t, 3.7, *fb.AverageHours)
	assert.Equal(t, 13.7, *fb.AverageGrade)
}

func TestDifficultyRatingBuckets(t *testing.T) {
	assert.Equal(t, 1, DifficultyRating(0))
	assert.Equal(t, 1, DifficultyRating(4.9))
	assert.Equal(t, 2, DifficultyRating(5.0))
	assert.Equal(t, 2, DifficultyRating(9.9))
	assert.Equal(t, 3, DifficultyRating(10))
	assert.Equal(t, 4, DifficultyRating(15))
	assert.Equal(t, 4, DifficultyRating(19.9))
	assert.Equal(t, 5, DifficultyRating(20))
	assert.Equal(t, 5, DifficultyRating(40))
}

func TestSummarizeFeedbackExactlyFiveHours(t *testing.T) {
	fb := SummarizeFeedback([]models.Enrollment{completed(intPtr(5), nil)})
	require.NotNil(t, fb.DifficultyRating)
	assert.Equal(t, 2, *fb.DifficultyRating)
}

func TestEnrolledCount(t *testing.T) {
	assert.Equal(t, 1, EnrolledCount([]models.Enrollment{
		{Status: models.EnrollmentStatusEnrolled},
		{Status: models.EnrollmentStatusCompleted},
	}))
}
