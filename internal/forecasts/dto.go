package forecasts

import (
	"time"

	"github.com/google/uuid"
)

type CreateForecastRequest struct {
	ClientName         string  `json:"clientName" validate:"required"`
	OpportunityName    string  `json:"opportunityName" validate:"required"`
	DealValue          float64 `json:"dealValue" validate:"gte=0"`
	ProbabilityPercent int     `json:"probabilityPercent" validate:"gte=0,lte=100"`
	ForecastAmount     float64 `json:"forecastAmount" validate:"gte=0"`
	Currency           string  `json:"currency" validate:"omitempty,len=3"`
	Month              string  `json:"month"`
	Quarter            string  `json:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Year               int     `json:"year" validate:"omitempty,gte=2000"`
	TaskID             string  `json:"taskId"`
}

type UpdateForecastRequest struct {
	ClientName         *string  `json:"clientName"`
	OpportunityName    *string  `json:"opportunityName"`
	DealValue          *float64 `json:"dealValue" validate:"omitempty,gte=0"`
	ProbabilityPercent *int     `json:"probabilityPercent" validate:"omitempty,gte=0,lte=100"`
	ForecastAmount     *float64 `json:"forecastAmount" validate:"omitempty,gte=0"`
	Currency           *string  `json:"currency" validate:"omitempty,len=3"`
	Month              *string  `json:"month"`
	Quarter            *string  `json:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Year               *int     `json:"year" validate:"omitempty,gte=2000"`
}

type ForecastResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TaskID              string     `json:"taskId"`
	ClientName          string     `json:"clientName"`
	OpportunityName     string     `json:"opportunityName"`
	DealValue           float64    `json:"dealValue"`
	ProbabilityPercent  int        `json:"probabilityPercent"`
	ForecastAmount      float64    `json:"forecastAmount"`
	Currency            string     `json:"currency"`
	Month               string     `json:"month"`
	Quarter             string     `json:"quarter"`
	Year                int        `json:"year"`
	LinkedOpportunityID *uuid.UUID `json:"linkedOpportunityId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func toResponse(f Forecast) ForecastResponse {
	return ForecastResponse{
		ID:                  f.ID,
		TaskID:              f.TaskID,
		ClientName:          f.ClientName,
		OpportunityName:     f.OpportunityName,
		DealValue:           f.DealValue,
		ProbabilityPercent:  f.ProbabilityPercent,
		ForecastAmount:      f.ForecastAmount,
		Currency:            f.Currency,
		Month:               f.Month,
		Quarter:             f.Quarter,
		Year:                f.Year,
		LinkedOpportunityID: f.LinkedOpportunityID,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
}

func toResponses(forecasts []Forecast) []ForecastResponse {
	out := make([]ForecastResponse, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, toResponse(f))
	}
	return out
}
