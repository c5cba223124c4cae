package partners

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"sales_crm_backend/platform/apperr"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

func validStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

type Store interface {
	Create(ctx context.Context, params CreateParams) (Partner, error)
	GetByID(ctx context.Context, id uuid.UUID) (Partner, error)
	List(ctx context.Context, status string) ([]Partner, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Partner, error) {
	if params.Status == "" {
		params.Status = StatusActive
	}
	if !validStatus(params.Status) {
		return Partner{}, apperr.Validation("invalid partner status")
	}

	partner, err := s.store.Create(ctx, params)
	if err != nil {
		return Partner{}, storageErr("partners.create", err)
	}
	return partner, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Partner, error) {
	partner, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Partner{}, storageErr("partners.get", err)
	}
	return partner, nil
}

func (s *Service) List(ctx context.Context, status string) ([]Partner, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation("invalid status filter")
	}
	partners, err := s.store.List(ctx, status)
	if err != nil {
		return nil, storageErr("partners.list", err)
	}
	return partners, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Partner, error) {
	if params.Status != nil && !validStatus(*params.Status) {
		return Partner{}, apperr.Validation("invalid partner status")
	}
	partner, err := s.store.Update(ctx, id, params)
	if err != nil {
		return Partner{}, storageErr("partners.update", err)
	}
	return partner, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("partners.delete", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("partner not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("partner storage unavailable", err)
	e.Op = op
	return e
}
