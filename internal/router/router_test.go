package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/handler"
	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/service"
	"github.com/noah-isme/unify-api/pkg/config"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
)

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (*models.JWTClaims, error) {
	return nil, appErrors.ErrUnauthorized
}

func (rejectAll) ResolveActor(context.Context, string) (*models.Actor, error) {
	return nil, appErrors.ErrUnauthorized
}

func newTestEngine(env string) http.Handler {
	metrics := service.NewMetricsService()
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	return Setup(cfg, Handlers{
		Auth:     handler.NewAuthHandler(nil),
		Course:   handler.NewCourseHandler(nil, nil),
		Planning: handler.NewPlanningHandler(nil),
		Activity: handler.NewActivityHandler(nil),
		Event:    handler.NewEventHandler(nil),
		Metrics:  handler.NewMetricsHandler(metrics, nil),
	}, rejectAll{}, metrics, zap.NewNop())
}

func TestSetupPublicAndProtectedRoutes(t *testing.T) {
	engine := newTestEngine(config.EnvDevelopment)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/planning", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/planning/export?format=ics", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/courses", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/events/ev1/join", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}
}

func TestSetupHidesDocsInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestEngine(config.EnvProduction).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
