// Package validation builds the shared request validator.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/unify-api/internal/planner"
)

// Custom tags.
const (
	TagHHMM    = "hhmm"
	TagWeekday = "weekday"
)

// New returns a validator reporting json field names and aware of the planning tags.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(TagHHMM, hhmmValidation)
	_ = v.RegisterValidation(TagWeekday, weekdayValidation)
	return v
}

// hhmmValidation accepts only the canonical zero-padded "HH:MM" form in
// 00:00..23:59. Stored times are compared as strings when a day is sorted,
// so "9:05" must never reach storage.
func hhmmValidation(fl validator.FieldLevel) bool {
	return IsClockTime(fl.Field().String())
}

// IsClockTime reports whether s is a canonical "HH:MM" time of day.
func IsClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[:2] < "24" && s[3:] < "60"
}

// English day names are accepted and normalized later.
func weekdayValidation(fl validator.FieldLevel) bool {
	return planner.IsWeekday(planner.NormalizeDay(fl.Field().String()))
}
