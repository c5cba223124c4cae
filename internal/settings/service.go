package settings

import (
	"context"
	"errors"

	"sales_crm_backend/platform/apperr"
)

// Well-known setting types backing the UI dropdowns and filters.
const (
	TypeRegions   = "regions"
	TypeCountries = "countries"
)

type Store interface {
	Create(ctx context.Context, settingType string, data []Option) (Setting, error)
	GetByType(ctx context.Context, settingType string) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
	Update(ctx context.Context, settingType string, data []Option) (Setting, error)
	Upsert(ctx context.Context, settingType string, data []Option) (Setting, error)
	Delete(ctx context.Context, settingType string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Setting, error) {
	settings, err := s.store.List(ctx)
	if err != nil {
		return nil, storageErr("settings.list", err)
	}
	return settings, nil
}

func (s *Service) Get(ctx context.Context, settingType string) (Setting, error) {
	setting, err := s.store.GetByType(ctx, settingType)
	if err != nil {
		return Setting{}, storageErr("settings.get", err)
	}
	return setting, nil
}

// Options returns the dropdown entries for a setting type. An unconfigured
// type yields an empty list, not an error; dropdowns degrade gracefully.
func (s *Service) Options(ctx context.Context, settingType string) ([]Option, error) {
	setting, err := s.store.GetByType(ctx, settingType)
	if errors.Is(err, ErrNotFound) {
		return []Option{}, nil
	}
	if err != nil {
		return nil, storageErr("settings.options", err)
	}
	if setting.Data == nil {
		return []Option{}, nil
	}
	return setting.Data, nil
}

// CountriesByRegion filters the country master data on region attribution.
func (s *Service) CountriesByRegion(ctx context.Context, region string) ([]Option, error) {
	countries, err := s.Options(ctx, TypeCountries)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0)
	for _, c := range countries {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, settingType string, data []Option) (Setting, error) {
	setting, err := s.store.Create(ctx, settingType, data)
	if errors.Is(err, ErrTypeTaken) {
		return Setting{}, apperr.Conflict("setting already exists")
	}
	if err != nil {
		return Setting{}, storageErr("settings.create", err)
	}
	return setting, nil
}

func (s *Service) Update(ctx context.Context, settingType string, data []Option) (Setting, error) {
	setting, err := s.store.Update(ctx, settingType, data)
	if err != nil {
		return Setting{}, storageErr("settings.update", err)
	}
	return setting, nil
}

// Replace upserts a setting's full option list. Used by the master-data
// maintenance endpoints.
func (s *Service) Replace(ctx context.Context, settingType string, data []Option) (Setting, error) {
	setting, err := s.store.Upsert(ctx, settingType, data)
	if err != nil {
		return Setting{}, storageErr("settings.replace", err)
	}
	return setting, nil
}

func (s *Service) Delete(ctx context.Context, settingType string) error {
	if err := s.store.Delete(ctx, settingType); err != nil {
		return storageErr("settings.delete", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("setting not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("settings storage unavailable", err)
	e.Op = op
	return e
}
