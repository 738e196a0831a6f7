package planner

import (
	"sort"

	"github.com/noah-isme/unify-api/internal/models"
)

const missingStartKey = "99:99"

// CourseEntry projects an enrollment's course slot.
func CourseEntry(e models.EnrollmentWithCourse) models.ScheduleEntry {
	code := e.CourseCode
	return models.ScheduleEntry{
		Kind:      models.EntryKindCourse,
		ID:        e.CourseID,
		Code:      &code,
		Title:     e.CourseName,
		DayOfWeek: deref(e.CourseDay),
		StartTime: e.CourseStart,
		EndTime:   e.CourseEnd,
	}
}

// ActivityEntry projects a personal activity.
func ActivityEntry(a models.Activity) models.ScheduleEntry {
	start, end := a.StartTime, a.EndTime
	return models.ScheduleEntry{
		Kind:      models.EntryKindActivity,
		ID:        a.ID,
		Title:     a.Title,
		DayOfWeek: a.DayOfWeek,
		StartTime: &start,
		EndTime:   &end,
	}
}

// EventEntry projects a joined event.
func EventEntry(ev models.Event) models.ScheduleEntry {
	start, end := ev.StartTime, ev.EndTime
	return models.ScheduleEntry{
		Kind:      models.EntryKindEvent,
		ID:        ev.ID,
		Title:     ev.Title,
		DayOfWeek: ev.DayOfWeek,
		StartTime: &start,
		EndTime:   &end,
	}
}

// BuildOptions tunes which sources feed the weekly grid.
type BuildOptions struct {
	IncludeEvents bool
}

// BuildSchedule groups entries by weekday then sorts each day by start time,
// with missing start times last. Only enrolled courses are considered and
// entries outside Lundi..Vendredi are dropped.
func BuildSchedule(src models.ScheduleSources, opts BuildOptions) models.WeeklySchedule {
	schedule := make(models.WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		schedule[day] = []models.ScheduleEntry{}
	}

	add := func(entry models.ScheduleEntry) {
		if entry.DayOfWeek == "" {
			return
		}
		if bucket, ok := schedule[entry.DayOfWeek]; ok {
			schedule[entry.DayOfWeek] = append(bucket, entry)
		}
	}

	for _, e := range src.Enrollments {
		if e.Status != models.EnrollmentStatusEnrolled {
			continue
		}
		add(CourseEntry(e))
	}
	for _, a := range src.Activities {
		add(ActivityEntry(a))
	}
	if opts.IncludeEvents {
		for _, ev := range src.Events {
			add(EventEntry(ev))
		}
	}

	for _, day := range Weekdays {
		entries := schedule[day]
		sort.SliceStable(entries, func(i, j int) bool {
			return startKey(entries[i]) < startKey(entries[j])
		})
	}
	return schedule
}

func startKey(e models.ScheduleEntry) string {
	if e.StartTime == nil || *e.StartTime == "" {
		return missingStartKey
	}
	return *e.StartTime
}
