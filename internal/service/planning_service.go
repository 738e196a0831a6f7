package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/planner"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/export"
)

// Planning export formats.
const (
	PlanningFormatCSV  = "csv"
	PlanningFormatPDF  = "pdf"
	PlanningFormatXLSX = "xlsx"
	PlanningFormatICS  = "ics"
)

var planningHeaders = []string{"Jour", "Début", "Fin", "Type", "Code", "Titre"}

var entryKindLabels = map[models.EntryKind]string{
	models.EntryKindCourse:   planner.ConflictTypeCourse,
	models.EntryKindActivity: planner.ConflictTypeActivity,
	models.EntryKindEvent:    planner.ConflictTypeEvent,
}

type planningEnrollmentReader interface {
	ListByStudentWithCourse(ctx context.Context, studentID string, status *models.EnrollmentStatus) ([]models.EnrollmentWithCourse, error)
}

type planningActivityReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.Activity, error)
}

type planningEventReader interface {
	ListJoinedByUser(ctx context.Context, userID string) ([]models.Event, error)
}

// PlanningConfig controls schedule assembly.
type PlanningConfig struct {
	IncludeEvents bool
	// Location is the campus zone of slot times; nil exports floating times.
	Location *time.Location
}

// PlanningExport is a rendered planning file.
type PlanningExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// PlanningService builds weekly plannings and checks slot conflicts for a user.
type PlanningService struct {
	enrollments planningEnrollmentReader
	activities  planningActivityReader
	events      planningEventReader
	metrics     *MetricsService
	logger      *zap.Logger
	config      PlanningConfig
	renderers   map[string]export.Renderer
	calendar    *export.ICSExporter
	now         func() time.Time
}

// NewPlanningService constructs a PlanningService.
func NewPlanningService(enrollments planningEnrollmentReader, activities planningActivityReader, events planningEventReader, metrics *MetricsService, logger *zap.Logger, config PlanningConfig) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		enrollments: enrollments,
		activities:  activities,
		events:      events,
		metrics:     metrics,
		logger:      logger,
		config:      config,
		renderers: map[string]export.Renderer{
			PlanningFormatCSV:  export.NewCSVExporter(),
			PlanningFormatPDF:  export.NewPDFExporter(),
			PlanningFormatXLSX: export.NewXLSXExporter(),
		},
		calendar: export.NewICSExporter(config.Location),
		now:      time.Now,
	}
}

// Schedule returns the acting user's weekly planning.
func (s *PlanningService) Schedule(ctx context.Context, actor *models.Actor) (models.WeeklySchedule, error) {
	src, err := s.loadSources(ctx, actor, s.config.IncludeEvents)
	if err != nil {
		return nil, err
	}
	return planner.BuildSchedule(src, planner.BuildOptions{IncludeEvents: s.config.IncludeEvents}), nil
}

// CheckConflicts lists the acting user's entries overlapping the candidate slot.
// The result is advisory and never blocks a write.
func (s *PlanningService) CheckConflicts(ctx context.Context, actor *models.Actor, day, start, end string) ([]models.ConflictReport, error) {
	src, err := s.loadSources(ctx, actor, true)
	if err != nil {
		return nil, err
	}
	conflicts := planner.DetectConflicts(src, day, start, end)
	s.metrics.RecordConflictCheck(len(conflicts))
	return conflicts, nil
}

// Export renders the weekly planning in the requested format.
func (s *PlanningService) Export(ctx context.Context, actor *models.Actor, format string) (*PlanningExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if _, ok := s.renderers[format]; !ok && format != PlanningFormatICS {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	schedule, err := s.Schedule(ctx, actor)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("planning-%s.%s", actor.User.Username, format)
	var out *PlanningExport
	switch format {
	case PlanningFormatICS:
		payload, err := s.calendar.Render(calendarEntries(schedule), s.now())
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render calendar")
		}
		out = &PlanningExport{Filename: filename, ContentType: s.calendar.ContentType(), Payload: payload}
	default:
		renderer := s.renderers[format]
		payload, err := renderer.Render(planningDataset(schedule, actor))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render planning")
		}
		out = &PlanningExport{Filename: filename, ContentType: renderer.ContentType(), Payload: payload}
	}

	s.metrics.RecordPlanningExport(format)
	s.logger.Debug("planning exported", zap.String("user_id", actor.User.ID), zap.String("format", format), zap.Int("bytes", len(out.Payload)))
	return out, nil
}

func (s *PlanningService) loadSources(ctx context.Context, actor *models.Actor, withEvents bool) (models.ScheduleSources, error) {
	var src models.ScheduleSources
	if actor.Student != nil {
		status := models.EnrollmentStatusEnrolled
		enrollments, err := s.enrollments.ListByStudentWithCourse(ctx, actor.Student.ID, &status)
		if err != nil {
			return src, appErrors.Internal(err, "failed to load enrollments")
		}
		src.Enrollments = enrollments
	}

	activities, err := s.activities.ListByUser(ctx, actor.User.ID)
	if err != nil {
		return src, appErrors.Internal(err, "failed to load activities")
	}
	src.Activities = activities

	if withEvents {
		events, err := s.events.ListJoinedByUser(ctx, actor.User.ID)
		if err != nil {
			return src, appErrors.Internal(err, "failed to load events")
		}
		src.Events = events
	}
	return src, nil
}

func planningDataset(schedule models.WeeklySchedule, actor *models.Actor) export.Dataset {
	data := export.Dataset{
		Title:   "Planning de " + actor.User.Username,
		Headers: planningHeaders,
		GroupBy: "Jour",
	}
	for _, day := range planner.Weekdays {
		for _, entry := range schedule[day] {
			data.Rows = append(data.Rows, map[string]string{
				"Jour":  day,
				"Début": derefString(entry.StartTime),
				"Fin":   derefString(entry.EndTime),
				"Type":  entryKindLabels[entry.Kind],
				"Code":  derefString(entry.Code),
				"Titre": entry.Title,
			})
		}
	}
	return data
}

// Entries without a usable time range cannot be placed on a calendar.
func calendarEntries(schedule models.WeeklySchedule) []export.CalendarEntry {
	var entries []export.CalendarEntry
	for idx, day := range planner.Weekdays {
		for _, entry := range schedule[day] {
			start, okStart := planner.ParseMinutes(derefString(entry.StartTime))
			end, okEnd := planner.ParseMinutes(derefString(entry.EndTime))
			if !okStart || !okEnd || end <= start {
				continue
			}
			summary := entry.Title
			if entry.Code != nil {
				summary = *entry.Code + " " + entry.Title
			}
			entries = append(entries, export.CalendarEntry{
				UID:         fmt.Sprintf("%s-%s@unify", entry.Kind, entry.ID),
				Summary:     summary,
				Description: entryKindLabels[entry.Kind],
				Weekday:     idx,
				Start:       time.Duration(start) * time.Minute,
				End:         time.Duration(end) * time.Minute,
			})
		}
	}
	return entries
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
