package activities

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"sales_crm_backend/platform/apperr"
)

// Activity type values.
const (
	TypeCall    = "Call"
	TypeEmail   = "Email"
	TypeMeeting = "Meeting"
	TypeDemo    = "Demo"
	TypeNote    = "Note"
)

func validType(activityType string) bool {
	switch activityType {
	case TypeCall, TypeEmail, TypeMeeting, TypeDemo, TypeNote:
		return true
	}
	return false
}

type Store interface {
	Create(ctx context.Context, params CreateParams) (Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (Activity, error)
	List(ctx context.Context, params ListParams) ([]Activity, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Activity, error) {
	if params.ActivityType == "" {
		params.ActivityType = TypeNote
	}
	if !validType(params.ActivityType) {
		return Activity{}, apperr.Validation("invalid activity type")
	}
	if params.TaskID == "" {
		return Activity{}, apperr.Validation("activity requires a task ID")
	}

	activity, err := s.store.Create(ctx, params)
	if err != nil {
		return Activity{}, storageErr("activities.create", err)
	}
	return activity, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Activity, error) {
	activity, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Activity{}, storageErr("activities.get", err)
	}
	return activity, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Activity, error) {
	if params.ActivityType != "" && !validType(params.ActivityType) {
		return nil, apperr.Validation("invalid activity type filter")
	}
	activities, err := s.store.List(ctx, params)
	if err != nil {
		return nil, storageErr("activities.list", err)
	}
	return activities, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Activity, error) {
	if params.ActivityType != nil && !validType(*params.ActivityType) {
		return Activity{}, apperr.Validation("invalid activity type")
	}
	activity, err := s.store.Update(ctx, id, params)
	if err != nil {
		return Activity{}, storageErr("activities.update", err)
	}
	return activity, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("activities.delete", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("activity not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("activity storage unavailable", err)
	e.Op = op
	return e
}
