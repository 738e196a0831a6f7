package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	Day   string `json:"day_of_week" validate:"required,weekday"`
	Start string `json:"start_time" validate:"required,hhmm"`
}

func TestValidatorAcceptsPlanningSlots(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(slot{Day: "Lundi", Start: "08:30"}))
	assert.NoError(t, v.Struct(slot{Day: "Friday", Start: "23:59"}))
	assert.NoError(t, v.Struct(slot{Day: "Mardi", Start: "00:00"}))
}

func TestValidatorRejectsNonCanonicalTimes(t *testing.T) {
	v := New()
	for _, start := range []string{"9:05", "9:5", "009:00", "+9:00", "-0:30", "09:60", "24:00", "09h30", "09:3a"} {
		err := v.Struct(slot{Day: "Lundi", Start: start})
		assert.Error(t, err, start)
		assert.False(t, IsClockTime(start), start)
	}
}

func TestValidatorRejectsBadSlots(t *testing.T) {
	v := New()

	err := v.Struct(slot{Day: "Samedi", Start: "25:00"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, TagWeekday, fields["day_of_week"])
	assert.Equal(t, TagHHMM, fields["start_time"])
}
