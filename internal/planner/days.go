package planner

import "strings"

// Weekday labels used across the planning. Weekends never reach the grid.
const (
	Monday    = "Lundi"
	Tuesday   = "Mardi"
	Wednesday = "Mercredi"
	Thursday  = "Jeudi"
	Friday    = "Vendredi"
)

// Weekdays is the fixed, ordered set of planning columns.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

var englishDays = map[string]string{
	"Monday":    Monday,
	"Tuesday":   Tuesday,
	"Wednesday": Wednesday,
	"Thursday":  Thursday,
	"Friday":    Friday,
	"Saturday":  "Samedi",
	"Sunday":    "Dimanche",
}

// NormalizeDay maps legacy English day names to their French label.
// Unmapped values are returned unchanged.
func NormalizeDay(day string) string {
	trimmed := strings.TrimSpace(day)
	if fr, ok := englishDays[trimmed]; ok {
		return fr
	}
	return trimmed
}

// IsWeekday reports whether day is one of the planning columns.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
