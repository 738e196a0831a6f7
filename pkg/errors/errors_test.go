package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	wrapped := FromError(err)
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrNotFound.Code, wrapped.Code)
	assert.Equal(t, "course not found", wrapped.Message)
	assert.Equal(t, http.StatusNotFound, wrapped.Status)
}

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	wrapped := FromError(sql.ErrConnDone)
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrInternal.Code, wrapped.Code)
	assert.True(t, errors.Is(wrapped, sql.ErrConnDone))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrConflict, "already enrolled")
	assert.Equal(t, "conflict", ErrConflict.Message)
	assert.Equal(t, "already enrolled", clone.Message)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("join: %w", Clone(ErrEventFull, "Quiz night is full"))
	assert.True(t, errors.Is(err, ErrEventFull))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestInvalidListsFieldFailures(t *testing.T) {
	type payload struct {
		Title     string `validate:"required"`
		StartTime string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})
	require.Error(t, verr)

	appErr := Invalid(verr, "invalid activity payload")
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, map[string]string{"title": "required", "startTime": "required"}, appErr.Fields)

	plain := Invalid(errors.New("bad json"), "invalid body")
	assert.Nil(t, plain.Fields)
}
