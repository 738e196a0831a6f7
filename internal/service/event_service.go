package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/models"
	"github.com/noah-isme/unify-api/internal/repository"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/validation"
)

type eventRepository interface {
	ListPublic(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	IsParticipant(ctx context.Context, eventID, userID string) (bool, error)
	AddParticipant(ctx context.Context, participant *models.EventParticipant) error
	RemoveParticipant(ctx context.Context, eventID, userID string) (bool, error)
}

type conflictChecker interface {
	CheckConflicts(ctx context.Context, actor *models.Actor, day, start, end string) ([]models.ConflictReport, error)
}

// EventService manages social events and participations.
type EventService struct {
	repo      eventRepository
	conflicts conflictChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, conflicts conflictChecker, validate *validator.Validate, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &EventService{repo: repo, conflicts: conflicts, validator: validate, logger: logger}
}

// List returns public events, optionally filtered by category.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.EventListItem, error) {
	switch filter.Sort {
	case models.EventSortDate, models.EventSortRecent, models.EventSortPopularity:
	default:
		filter.Sort = models.EventSortDate
	}
	events, err := s.repo.ListPublic(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	items := make([]models.EventListItem, 0, len(events))
	for _, ev := range events {
		items = append(items, models.EventListItem{Event: ev, Emoji: ev.Category.Emoji(), Full: ev.IsFull()})
	}
	return items, nil
}

// Create stores an event owned by the acting user.
func (s *EventService) Create(ctx context.Context, actor *models.Actor, req models.CreateEventRequest) (*models.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid event payload")
	}
	if err := validateSlotOrder(&req.StartTime, &req.EndTime); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = models.EventCategoryOther
	}
	maxParticipants := req.MaxParticipants
	if maxParticipants != nil && *maxParticipants <= 0 {
		maxParticipants = nil
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	event := &models.Event{
		CreatorID:       actor.User.ID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        category,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       strings.TrimSpace(req.StartTime),
		EndTime:         strings.TrimSpace(req.EndTime),
		EventDate:       req.EventDate,
		Location:        req.Location,
		MaxParticipants: maxParticipants,
		IsPublic:        isPublic,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Internal(err, "failed to create event")
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("creator_id", actor.User.ID))
	return event, nil
}

// Detail returns an event as seen by the viewer. Conflicts are only computed for
// authenticated viewers who have not joined yet.
func (s *EventService) Detail(ctx context.Context, id string, viewer *models.Actor) (*models.EventDetail, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.EventDetail{
		Event:     *event,
		Emoji:     event.Category.Emoji(),
		Full:      event.IsFull(),
		Conflicts: []models.ConflictReport{},
	}
	if viewer == nil {
		return detail, nil
	}

	detail.IsCreator = event.CreatorID == viewer.User.ID
	detail.IsParticipant, err = s.repo.IsParticipant(ctx, event.ID, viewer.User.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check participation")
	}
	if !detail.IsParticipant {
		conflicts, err := s.conflicts.CheckConflicts(ctx, viewer, event.DayOfWeek, event.StartTime, event.EndTime)
		if err != nil {
			return nil, err
		}
		detail.Conflicts = conflicts
	}
	return detail, nil
}

// Join adds the acting user to the event. Conflicts are returned but never block.
func (s *EventService) Join(ctx context.Context, actor *models.Actor, id string) (*models.JoinEventResult, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	joined, err := s.repo.IsParticipant(ctx, event.ID, actor.User.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check participation")
	}
	if joined {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already participating in this event")
	}
	if event.IsFull() {
		return nil, appErrors.Clone(appErrors.ErrEventFull, "")
	}

	conflicts, err := s.conflicts.CheckConflicts(ctx, actor, event.DayOfWeek, event.StartTime, event.EndTime)
	if err != nil {
		return nil, err
	}

	participant := models.EventParticipant{EventID: event.ID, UserID: actor.User.ID}
	if err := s.repo.AddParticipant(ctx, &participant); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrConflict, "already participating in this event")
		case errors.Is(err, repository.ErrEventFull):
			return nil, appErrors.Clone(appErrors.ErrEventFull, "")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Internal(err, "failed to join event")
	}
	if len(conflicts) > 0 {
		s.logger.Info("event joined despite conflicts", zap.String("event_id", event.ID), zap.Int("conflicts", len(conflicts)))
	}
	return &models.JoinEventResult{Participant: participant, Conflicts: conflicts}, nil
}

// Leave removes the acting user's participation.
func (s *EventService) Leave(ctx context.Context, actor *models.Actor, id string) error {
	removed, err := s.repo.RemoveParticipant(ctx, id, actor.User.ID)
	if err != nil {
		return appErrors.Internal(err, "failed to leave event")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "not participating in this event")
	}
	return nil
}

// Delete removes an event created by the acting user.
func (s *EventService) Delete(ctx context.Context, actor *models.Actor, id string) error {
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatorID != actor.User.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the creator can delete this event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete event")
	}
	return nil
}

func (s *EventService) load(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Internal(err, "failed to load event")
	}
	return event, nil
}
