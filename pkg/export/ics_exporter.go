package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

var byDay = [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// CalendarEntry is a weekly recurring slot. Weekday is 0 for Monday.
type CalendarEntry struct {
	UID         string
	Summary     string
	Description string
	Weekday     int
	Start       time.Duration
	End         time.Duration
}

const icalLocalLayout = "20060102T150405"

// ICSExporter renders weekly entries into an iCalendar feed. Slot times are
// campus wall-clock values: they are written as local times tagged with
// TZID=<Location>, or as floating times when Location is nil or UTC.
type ICSExporter struct {
	ProductID string
	Location  *time.Location
}

// NewICSExporter constructs an iCalendar exporter for the campus location.
func NewICSExporter(loc *time.Location) *ICSExporter {
	return &ICSExporter{ProductID: "-//Unify//Planning//FR", Location: loc}
}

// ContentType returns the iCalendar mime type.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Extension returns the file extension.
func (e *ICSExporter) Extension() string { return "ics" }

// Render anchors each entry on the week containing ref and repeats it weekly.
func (e *ICSExporter) Render(entries []CalendarEntry, ref time.Time) ([]byte, error) {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	monday := weekStart(ref.In(loc))

	var zone []ics.PropertyParameter
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.ProductID)
	if loc != time.UTC {
		zone = append(zone, &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{loc.String()}})
		cal.SetXWRTimezone(loc.String())
	}

	for _, entry := range entries {
		if entry.Weekday < 0 || entry.Weekday >= len(byDay) {
			return nil, fmt.Errorf("entry %s: weekday %d out of range", entry.UID, entry.Weekday)
		}
		if entry.End <= entry.Start {
			return nil, fmt.Errorf("entry %s: end must be after start", entry.UID)
		}
		day := monday.AddDate(0, 0, entry.Weekday)
		event := cal.AddEvent(entry.UID)
		event.SetDtStampTime(ref.UTC())
		event.SetSummary(entry.Summary)
		if entry.Description != "" {
			event.SetDescription(entry.Description)
		}
		event.SetProperty(ics.ComponentPropertyDtStart, wallClock(day, entry.Start).Format(icalLocalLayout), zone...)
		event.SetProperty(ics.ComponentPropertyDtEnd, wallClock(day, entry.End).Format(icalLocalLayout), zone...)
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+byDay[entry.Weekday])
	}

	return []byte(cal.Serialize()), nil
}

// wallClock places an offset from midnight on day as a wall-clock time, so a
// DST change on that day does not shift the slot.
func wallClock(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, int(offset/time.Minute), 0, 0, day.Location())
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
