package forecasts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

type Store interface {
	Create(ctx context.Context, params CreateParams) (Forecast, error)
	GetByID(ctx context.Context, id uuid.UUID) (Forecast, error)
	List(ctx context.Context, params ListParams) ([]Forecast, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Forecast, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates the forecast service. The clock feeds the month,
// quarter and year buckets for entries created by the win workflow.
func NewService(store Store, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, log: log, now: now}
}

// Amount is the weighted forecast value for a deal.
func Amount(dealValue float64, probabilityPercent int) float64 {
	return dealValue * float64(probabilityPercent) / 100
}

// QuarterOf returns the fiscal bucket label for a point in time, e.g. "Q3".
func QuarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Forecast, error) {
	if params.ProbabilityPercent < 0 || params.ProbabilityPercent > 100 {
		return Forecast{}, apperr.Validation("probability must be between 0 and 100")
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if params.ForecastAmount == 0 {
		params.ForecastAmount = Amount(params.DealValue, params.ProbabilityPercent)
	}
	s.fillBuckets(&params)

	forecast, err := s.store.Create(ctx, params)
	if err != nil {
		return Forecast{}, storageErr("forecasts.create", err)
	}
	return forecast, nil
}

func (s *Service) fillBuckets(params *CreateParams) {
	now := s.now().UTC()
	if params.Month == "" {
		params.Month = now.Month().String()
	}
	if params.Quarter == "" {
		params.Quarter = QuarterOf(now)
	}
	if params.Year == 0 {
		params.Year = now.Year()
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Forecast, error) {
	forecast, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Forecast{}, storageErr("forecasts.get", err)
	}
	return forecast, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Forecast, error) {
	forecasts, err := s.store.List(ctx, params)
	if err != nil {
		return nil, storageErr("forecasts.list", err)
	}
	return forecasts, nil
}

// Update applies the patch. When deal value or probability change without an
// explicit amount, the weighted amount is rederived.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Forecast, error) {
	if params.ProbabilityPercent != nil && (*params.ProbabilityPercent < 0 || *params.ProbabilityPercent > 100) {
		return Forecast{}, apperr.Validation("probability must be between 0 and 100")
	}

	if params.ForecastAmount == nil && (params.DealValue != nil || params.ProbabilityPercent != nil) {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return Forecast{}, storageErr("forecasts.update", err)
		}
		dealValue := current.DealValue
		if params.DealValue != nil {
			dealValue = *params.DealValue
		}
		probability := current.ProbabilityPercent
		if params.ProbabilityPercent != nil {
			probability = *params.ProbabilityPercent
		}
		amount := Amount(dealValue, probability)
		params.ForecastAmount = &amount
	}

	forecast, err := s.store.Update(ctx, id, params)
	if err != nil {
		return Forecast{}, storageErr("forecasts.update", err)
	}
	return forecast, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("forecasts.delete", err)
	}
	return nil
}

// RecordWin books the full deal value into the current fiscal bucket when an
// opportunity closes as won.
func (s *Service) RecordWin(ctx context.Context, evt events.OpportunityWon) error {
	forecast, err := s.Create(ctx, CreateParams{
		TaskID:              evt.TaskID,
		ClientName:          evt.ClientName,
		OpportunityName:     evt.OpportunityName,
		DealValue:           evt.DealValue,
		ProbabilityPercent:  100,
		Currency:            evt.Currency,
		LinkedOpportunityID: &evt.OpportunityID,
	})
	if err != nil {
		return err
	}
	s.log.Info("forecast entry booked for won opportunity",
		"opportunity_id", evt.OpportunityID, "forecast_id", forecast.ID,
		"amount", forecast.ForecastAmount)
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("forecast not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("forecast storage unavailable", err)
	e.Op = op
	return e
}
