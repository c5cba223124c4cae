package sows

import (
	"time"

	"github.com/google/uuid"
)

type CreateSOWRequest struct {
	ClientName  string  `json:"clientName" validate:"required"`
	ProjectName string  `json:"projectName" validate:"required"`
	Owner       string  `json:"owner"`
	Description string  `json:"description"`
	Value       float64 `json:"value" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Status      string  `json:"status" validate:"omitempty,oneof=Draft Active 'On Hold' Completed"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type UpdateSOWRequest struct {
	ClientName  *string  `json:"clientName"`
	ProjectName *string  `json:"projectName"`
	Owner       *string  `json:"owner"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value" validate:"omitempty,gte=0"`
	Currency    *string  `json:"currency" validate:"omitempty,len=3"`
	Status      *string  `json:"status" validate:"omitempty,oneof=Draft Active 'On Hold' Completed"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
}

type SOWResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TaskID              string     `json:"taskId"`
	ClientName          string     `json:"clientName"`
	ProjectName         string     `json:"projectName"`
	Owner               string     `json:"owner"`
	Description         string     `json:"description"`
	Value               float64    `json:"value"`
	Currency            string     `json:"currency"`
	Status              string     `json:"status"`
	StartDate           *string    `json:"startDate,omitempty"`
	EndDate             *string    `json:"endDate,omitempty"`
	LinkedOpportunityID *uuid.UUID `json:"linkedOpportunityId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func toResponse(s SOW) SOWResponse {
	return SOWResponse{
		ID:                  s.ID,
		TaskID:              s.TaskID,
		ClientName:          s.ClientName,
		ProjectName:         s.ProjectName,
		Owner:               s.Owner,
		Description:         s.Description,
		Value:               s.Value,
		Currency:            s.Currency,
		Status:              s.Status,
		StartDate:           s.StartDate,
		EndDate:             s.EndDate,
		LinkedOpportunityID: s.LinkedOpportunityID,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func toResponses(sows []SOW) []SOWResponse {
	out := make([]SOWResponse, 0, len(sows))
	for _, s := range sows {
		out = append(out, toResponse(s))
	}
	return out
}
