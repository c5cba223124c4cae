package settings

import (
	"context"
	"testing"

	"sales_crm_backend/platform/apperr"
)

type fakeStore struct {
	settings map[string]Setting
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]Setting)}
}

func (f *fakeStore) Create(_ context.Context, settingType string, data []Option) (Setting, error) {
	if _, ok := f.settings[settingType]; ok {
		return Setting{}, ErrTypeTaken
	}
	s := Setting{SettingType: settingType, Data: data}
	f.settings[settingType] = s
	return s, nil
}

func (f *fakeStore) GetByType(_ context.Context, settingType string) (Setting, error) {
	s, ok := f.settings[settingType]
	if !ok {
		return Setting{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) List(_ context.Context) ([]Setting, error) {
	out := make([]Setting, 0, len(f.settings))
	for _, s := range f.settings {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, settingType string, data []Option) (Setting, error) {
	s, ok := f.settings[settingType]
	if !ok {
		return Setting{}, ErrNotFound
	}
	s.Data = data
	f.settings[settingType] = s
	return s, nil
}

func (f *fakeStore) Upsert(_ context.Context, settingType string, data []Option) (Setting, error) {
	s := Setting{SettingType: settingType, Data: data}
	f.settings[settingType] = s
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, settingType string) error {
	if _, ok := f.settings[settingType]; !ok {
		return ErrNotFound
	}
	delete(f.settings, settingType)
	return nil
}

func TestOptionsReturnsEmptyForUnconfiguredType(t *testing.T) {
	svc := NewService(newFakeStore())

	options, err := svc.Options(context.Background(), TypeRegions)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if options == nil || len(options) != 0 {
		t.Errorf("options = %v, want empty list", options)
	}
}

func TestCountriesByRegionFilters(t *testing.T) {
	store := newFakeStore()
	store.settings[TypeCountries] = Setting{
		SettingType: TypeCountries,
		Data: []Option{
			{ID: "1", Name: "United States", Region: "North America"},
			{ID: "2", Name: "Germany", Region: "Europe"},
			{ID: "3", Name: "France", Region: "Europe"},
			{ID: "4", Name: "Japan", Region: "Asia Pacific"},
		},
	}
	svc := NewService(store)

	got, err := svc.CountriesByRegion(context.Background(), "Europe")
	if err != nil {
		t.Fatalf("CountriesByRegion: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d countries, want 2", len(got))
	}
	for _, c := range got {
		if c.Region != "Europe" {
			t.Errorf("country %q attributed to %q, want Europe", c.Name, c.Region)
		}
	}

	empty, err := svc.CountriesByRegion(context.Background(), "Antarctica")
	if err != nil {
		t.Fatalf("CountriesByRegion: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d countries for unknown region, want 0", len(empty))
	}
}

func TestCreateDuplicateTypeConflicts(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, err := svc.Create(context.Background(), "industries", []Option{{ID: "1", Name: "Manufacturing"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(context.Background(), "industries", nil)
	if err == nil {
		t.Fatal("expected error for duplicate setting type")
	}
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("error kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestReplaceUpsertsMissingType(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	regions := []Option{{ID: "1", Name: "North America"}, {ID: "2", Name: "Europe"}}
	setting, err := svc.Replace(context.Background(), TypeRegions, regions)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if len(setting.Data) != 2 {
		t.Fatalf("got %d options, want 2", len(setting.Data))
	}

	options, err := svc.Options(context.Background(), TypeRegions)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(options) != 2 {
		t.Errorf("got %d options after replace, want 2", len(options))
	}
}
