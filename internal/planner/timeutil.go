// Package planner assembles weekly plannings, detects slot overlaps and
// aggregates course feedback. Every function is pure and operates on data
// already scoped to the acting user.
package planner

import (
	"strconv"
	"strings"
)

// ParseMinutes converts "HH:MM" into minutes since midnight.
// Empty or malformed input yields ok == false rather than an error.
func ParseMinutes(t string) (int, bool) {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0, false
	}
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return hh*60 + mm, true
}

// Overlaps reports whether [start1, end1) and [start2, end2) intersect.
// Any unparseable bound means no conflict can be asserted.
func Overlaps(start1, end1, start2, end2 string) bool {
	s1, ok1 := ParseMinutes(start1)
	e1, ok2 := ParseMinutes(end1)
	s2, ok3 := ParseMinutes(start2)
	e2, ok4 := ParseMinutes(end2)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return s1 < e2 && s2 < e1
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
