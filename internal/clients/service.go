package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"sales_crm_backend/platform/apperr"
)

// Tier and status values for a client account.
const (
	TierStrategic = "Strategic"
	TierKey       = "Key"
	TierStandard  = "Standard"

	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusProspect = "Prospect"
)

func validTier(tier string) bool {
	switch tier {
	case TierStrategic, TierKey, TierStandard:
		return true
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusProspect:
		return true
	}
	return false
}

type Store interface {
	Create(ctx context.Context, params CreateParams) (Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	List(ctx context.Context, params ListParams) ([]Client, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Client, error) {
	if params.Tier == "" {
		params.Tier = TierStandard
	}
	if !validTier(params.Tier) {
		return Client{}, apperr.Validation("invalid client tier")
	}
	if params.Status == "" {
		params.Status = StatusProspect
	}
	if !validStatus(params.Status) {
		return Client{}, apperr.Validation("invalid client status")
	}

	client, err := s.store.Create(ctx, params)
	if err != nil {
		return Client{}, storageErr("clients.create", err)
	}
	return client, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	client, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Client{}, storageErr("clients.get", err)
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Client, error) {
	if params.Tier != "" && !validTier(params.Tier) {
		return nil, apperr.Validation("invalid tier filter")
	}
	if params.Status != "" && !validStatus(params.Status) {
		return nil, apperr.Validation("invalid status filter")
	}
	clients, err := s.store.List(ctx, params)
	if err != nil {
		return nil, storageErr("clients.list", err)
	}
	return clients, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Client, error) {
	if params.Tier != nil && !validTier(*params.Tier) {
		return Client{}, apperr.Validation("invalid client tier")
	}
	if params.Status != nil && !validStatus(*params.Status) {
		return Client{}, apperr.Validation("invalid client status")
	}
	client, err := s.store.Update(ctx, id, params)
	if err != nil {
		return Client{}, storageErr("clients.update", err)
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("clients.delete", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("client not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("client storage unavailable", err)
	e.Op = op
	return e
}
