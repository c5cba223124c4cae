package forecasts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/logger"
)

type fakeStore struct {
	forecasts map[uuid.UUID]Forecast
}

func newFakeStore() *fakeStore {
	return &fakeStore{forecasts: make(map[uuid.UUID]Forecast)}
}

func (f *fakeStore) Create(_ context.Context, params CreateParams) (Forecast, error) {
	fc := Forecast{
		ID:                  uuid.New(),
		TaskID:              params.TaskID,
		ClientName:          params.ClientName,
		OpportunityName:     params.OpportunityName,
		DealValue:           params.DealValue,
		ProbabilityPercent:  params.ProbabilityPercent,
		ForecastAmount:      params.ForecastAmount,
		Currency:            params.Currency,
		Month:               params.Month,
		Quarter:             params.Quarter,
		Year:                params.Year,
		LinkedOpportunityID: params.LinkedOpportunityID,
	}
	f.forecasts[fc.ID] = fc
	return fc, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (Forecast, error) {
	fc, ok := f.forecasts[id]
	if !ok {
		return Forecast{}, ErrNotFound
	}
	return fc, nil
}

func (f *fakeStore) List(_ context.Context, params ListParams) ([]Forecast, error) {
	out := make([]Forecast, 0)
	for _, fc := range f.forecasts {
		if params.Quarter != "" && fc.Quarter != params.Quarter {
			continue
		}
		if params.Year != 0 && fc.Year != params.Year {
			continue
		}
		out = append(out, fc)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params UpdateParams) (Forecast, error) {
	fc, ok := f.forecasts[id]
	if !ok {
		return Forecast{}, ErrNotFound
	}
	if params.DealValue != nil {
		fc.DealValue = *params.DealValue
	}
	if params.ProbabilityPercent != nil {
		fc.ProbabilityPercent = *params.ProbabilityPercent
	}
	if params.ForecastAmount != nil {
		fc.ForecastAmount = *params.ForecastAmount
	}
	f.forecasts[id] = fc
	return fc, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.forecasts[id]; !ok {
		return ErrNotFound
	}
	delete(f.forecasts, id)
	return nil
}

var testNow = time.Date(2025, time.August, 20, 9, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	return NewService(store, logger.New("test"), func() time.Time { return testNow })
}

func TestAmountWeighting(t *testing.T) {
	tests := []struct {
		name        string
		dealValue   float64
		probability int
		want        float64
	}{
		{"even split", 100000, 50, 50000},
		{"certain", 80000, 100, 80000},
		{"long shot", 250000, 10, 25000},
		{"dead deal", 90000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.dealValue, tt.probability); got != tt.want {
				t.Errorf("Amount(%v, %d) = %v, want %v", tt.dealValue, tt.probability, got, tt.want)
			}
		})
	}
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Q1"},
		{time.March, "Q1"},
		{time.April, "Q2"},
		{time.September, "Q3"},
		{time.December, "Q4"},
	}
	for _, tt := range tests {
		at := time.Date(2025, tt.month, 10, 0, 0, 0, 0, time.UTC)
		if got := QuarterOf(at); got != tt.want {
			t.Errorf("QuarterOf(%s) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestCreateDerivesAmountAndBuckets(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	fc, err := svc.Create(context.Background(), CreateParams{
		ClientName:         "Globex",
		OpportunityName:    "Globex rollout",
		DealValue:          120000,
		ProbabilityPercent: 25,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fc.ForecastAmount != 30000 {
		t.Errorf("forecast amount = %v, want 30000", fc.ForecastAmount)
	}
	if fc.Month != "August" || fc.Quarter != "Q3" || fc.Year != 2025 {
		t.Errorf("buckets = %s/%s/%d, want August/Q3/2025", fc.Month, fc.Quarter, fc.Year)
	}
}

func TestCreateKeepsExplicitAmount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	fc, err := svc.Create(context.Background(), CreateParams{
		ClientName:         "Initech",
		OpportunityName:    "Initech migration",
		DealValue:          100000,
		ProbabilityPercent: 50,
		ForecastAmount:     42000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fc.ForecastAmount != 42000 {
		t.Errorf("forecast amount = %v, want the explicit 42000", fc.ForecastAmount)
	}
}

func TestUpdateRederivesAmount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	fc, _ := svc.Create(context.Background(), CreateParams{
		ClientName:         "Acme",
		OpportunityName:    "Acme pilot",
		DealValue:          60000,
		ProbabilityPercent: 50,
	})

	probability := 80
	updated, err := svc.Update(context.Background(), fc.ID, UpdateParams{ProbabilityPercent: &probability})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ForecastAmount != 48000 {
		t.Errorf("forecast amount = %v, want rederived 48000", updated.ForecastAmount)
	}
}

func TestRecordWinBooksFullValue(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	oppID := uuid.New()
	err := svc.RecordWin(context.Background(), events.OpportunityWon{
		BaseEvent:       events.NewBaseEvent(),
		OpportunityID:   oppID,
		TaskID:          "SAL0042",
		ClientName:      "Hooli",
		OpportunityName: "Hooli platform",
		DealValue:       200000,
		Currency:        "USD",
	})
	if err != nil {
		t.Fatalf("RecordWin: %v", err)
	}

	forecasts, _ := store.List(context.Background(), ListParams{})
	if len(forecasts) != 1 {
		t.Fatalf("got %d forecasts, want 1", len(forecasts))
	}
	fc := forecasts[0]
	if fc.ForecastAmount != 200000 {
		t.Errorf("forecast amount = %v, want the full 200000", fc.ForecastAmount)
	}
	if fc.ProbabilityPercent != 100 {
		t.Errorf("probability = %d, want 100", fc.ProbabilityPercent)
	}
	if fc.TaskID != "SAL0042" {
		t.Errorf("task ID = %q, want SAL0042", fc.TaskID)
	}
	if fc.LinkedOpportunityID == nil || *fc.LinkedOpportunityID != oppID {
		t.Errorf("linked opportunity = %v, want %s", fc.LinkedOpportunityID, oppID)
	}
}
