package planner

import (
	"fmt"

	"github.com/noah-isme/unify-api/internal/models"
)

// Conflict labels shown to users.
const (
	ConflictTypeCourse   = "Cours"
	ConflictTypeActivity = "Activité"
	ConflictTypeEvent    = "Événement"
)

// DetectConflicts lists every entry on day overlapping [start, end).
// Order is courses, then activities, then joined events, each in source order.
func DetectConflicts(src models.ScheduleSources, day, start, end string) []models.ConflictReport {
	day = NormalizeDay(day)
	conflicts := []models.ConflictReport{}

	check := func(label string, entry models.ScheduleEntry) {
		if entry.DayOfWeek != day {
			return
		}
		entryStart, entryEnd := deref(entry.StartTime), deref(entry.EndTime)
		if !Overlaps(start, end, entryStart, entryEnd) {
			return
		}
		conflicts = append(conflicts, models.ConflictReport{
			Type:  label,
			Title: entry.Title,
			Time:  fmt.Sprintf("%s - %s", entryStart, entryEnd),
		})
	}

	for _, e := range src.Enrollments {
		if e.Status != models.EnrollmentStatusEnrolled {
			continue
		}
		check(ConflictTypeCourse, CourseEntry(e))
	}
	for _, a := range src.Activities {
		check(ConflictTypeActivity, ActivityEntry(a))
	}
	for _, ev := range src.Events {
		check(ConflictTypeEvent, EventEntry(ev))
	}
	return conflicts
}
