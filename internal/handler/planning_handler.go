package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/service"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/response"
)

type planningService interface {
	Schedule(ctx context.Context, actor *models.Actor) (models.WeeklySchedule, error)
	CheckConflicts(ctx context.Context, actor *models.Actor, day, start, end string) ([]models.ConflictReport, error)
	Export(ctx context.Context, actor *models.Actor, format string) (*service.PlanningExport, error)
}

// PlanningHandler serves the weekly planning.
type PlanningHandler struct {
	service planningService
}

// NewPlanningHandler constructs a planning handler.
func NewPlanningHandler(svc planningService) *PlanningHandler {
	return &PlanningHandler{service: svc}
}

// Schedule godoc
// @Summary Weekly planning
// @Description Courses, activities and optionally joined events grouped by weekday
// @Tags Planning
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /planning [get]
func (h *PlanningHandler) Schedule(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	schedule, err := h.service.Schedule(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Conflicts godoc
// @Summary Slot conflicts
// @Description Entries overlapping a candidate slot; advisory only
// @Tags Planning
// @Produce json
// @Security BearerAuth
// @Param day query string true "Weekday"
// @Param start query string true "HH:MM"
// @Param end query string true "HH:MM"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planning/conflicts [get]
func (h *PlanningHandler) Conflicts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	day, start, end := c.Query("day"), c.Query("start"), c.Query("end")
	if day == "" || start == "" || end == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day, start and end are required"))
		return
	}
	conflicts, err := h.service.CheckConflicts(c.Request.Context(), actor, day, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil, map[string]interface{}{"has_conflicts": len(conflicts) > 0})
}

// Export godoc
// @Summary Export planning
// @Tags Planning
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv, pdf, xlsx or ics"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /planning/export [get]
func (h *PlanningHandler) Export(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	out, err := h.service.Export(c.Request.Context(), actor, c.DefaultQuery("format", service.PlanningFormatICS))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, out.ContentType, out.Payload)
}
