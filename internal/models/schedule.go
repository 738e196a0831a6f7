package models

// EntryKind tags the source of a schedule entry.
type EntryKind string

const (
	EntryKindCourse   EntryKind = "course"
	EntryKindActivity EntryKind = "activity"
	EntryKindEvent    EntryKind = "event"
)

// ScheduleEntry is a read-only projection of a course, activity or event slot.
type ScheduleEntry struct {
	Kind      EntryKind `json:"kind"`
	ID        string    `json:"id"`
	Code      *string   `json:"code"`
	Title     string    `json:"title"`
	DayOfWeek string    `json:"-"`
	StartTime *string   `json:"start"`
	EndTime   *string   `json:"end"`
}

// WeeklySchedule maps a weekday label to its chronologically ordered entries.
type WeeklySchedule map[string][]ScheduleEntry

// ConflictReport describes an existing entry overlapping a candidate slot.
type ConflictReport struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Time  string `json:"time"`
}

// ScheduleSources holds the per-user inputs of the planner, already scoped to the actor.
type ScheduleSources struct {
	Enrollments []EnrollmentWithCourse
	Activities  []Activity
	Events      []Event
}
