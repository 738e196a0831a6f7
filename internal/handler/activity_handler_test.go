package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unify-api/internal/models"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
)

type activityServiceMock struct {
	created   models.CreateActivityRequest
	createErr error
	deletedID string
}

func (m *activityServiceMock) Create(ctx context.Context, actor *models.Actor, req models.CreateActivityRequest) (*models.Activity, error) {
	m.created = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Activity{ID: "a1", Title: req.Title}, nil
}

func (m *activityServiceMock) List(ctx context.Context, actor *models.Actor) ([]models.Activity, error) {
	return []models.Activity{{ID: "a1"}}, nil
}

func (m *activityServiceMock) Delete(ctx context.Context, actor *models.Actor, id string) error {
	m.deletedID = id
	return nil
}

func TestActivityHandlerCreate(t *testing.T) {
	mockSvc := &activityServiceMock{}
	handler := NewActivityHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/activities", `{"title":"Jogging","day_of_week":"Lundi","start_time":"07:00","end_time":"08:00"}`, testStudent())
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Lundi", mockSvc.created.DayOfWeek)
}

func TestActivityHandlerCreateValidationError(t *testing.T) {
	handler := NewActivityHandler(&activityServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "invalid activity payload")})

	c, w := newTestContext(http.MethodPost, "/activities", `{"title":""}`, testStudent())
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandlerListAndDelete(t *testing.T) {
	mockSvc := &activityServiceMock{}
	handler := NewActivityHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/activities", "", testStudent())
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, _ = newTestContext(http.MethodDelete, "/activities/a1", "", testStudent())
	c.Params = gin.Params{{Key: "id", Value: "a1"}}
	handler.Delete(c)
	assert.Equal(t, "a1", mockSvc.deletedID)
}
