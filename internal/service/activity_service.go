package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unify-api/internal/models"
	appErrors "github.com/noah-isme/unify-api/pkg/errors"
	"github.com/noah-isme/unify-api/pkg/validation"
)

type activityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID string) ([]models.Activity, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService manages personal weekly activities.
type ActivityService struct {
	repo      activityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo activityRepository, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &ActivityService{repo: repo, validator: validate, logger: logger}
}

// Create stores a new activity for the acting user.
func (s *ActivityService) Create(ctx context.Context, actor *models.Actor, req models.CreateActivityRequest) (*models.Activity, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid activity payload")
	}
	if err := validateSlotOrder(&req.StartTime, &req.EndTime); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		UserID:         actor.User.ID,
		Title:          req.Title,
		Description:    req.Description,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      strings.TrimSpace(req.StartTime),
		EndTime:        strings.TrimSpace(req.EndTime),
		Semester:       req.Semester,
		AcademicalYear: req.AcademicalYear,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, appErrors.Internal(err, "failed to create activity")
	}
	return activity, nil
}

// List returns the acting user's activities.
func (s *ActivityService) List(ctx context.Context, actor *models.Actor) ([]models.Activity, error) {
	activities, err := s.repo.ListByUser(ctx, actor.User.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list activities")
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// Delete removes an activity owned by the acting user.
func (s *ActivityService) Delete(ctx context.Context, actor *models.Actor, id string) error {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return appErrors.Internal(err, "failed to load activity")
	}
	if activity.UserID != actor.User.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "activity belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete activity")
	}
	return nil
}
