package opportunities

import (
	"time"

	"github.com/google/uuid"
)

type CreateOpportunityRequest struct {
	ClientName          string   `json:"clientName" validate:"required"`
	OpportunityName     string   `json:"opportunityName" validate:"required"`
	SalesOwner          string   `json:"salesOwner"`
	DealValue           float64  `json:"dealValue" validate:"gte=0"`
	ProbabilityPercent  int      `json:"probabilityPercent" validate:"gte=0,lte=100"`
	NextAction          string   `json:"nextAction"`
	PartnerOrg          string   `json:"partnerOrg"`
	Industry            string   `json:"industry"`
	Region              string   `json:"region"`
	Country             string   `json:"country"`
	Solution            string   `json:"solution"`
	Currency            string   `json:"currency" validate:"omitempty,len=3"`
	Stage               string   `json:"stage" validate:"omitempty,oneof=Prospecting 'Needs Analysis' Proposal Negotiation 'Closed Won' 'Closed Lost'"`
	ExpectedClosureDate *string  `json:"expectedClosureDate"`
}

type UpdateOpportunityRequest struct {
	ClientName          *string    `json:"clientName"`
	OpportunityName     *string    `json:"opportunityName"`
	SalesOwner          *string    `json:"salesOwner"`
	DealValue           *float64   `json:"dealValue" validate:"omitempty,gte=0"`
	ProbabilityPercent  *int       `json:"probabilityPercent" validate:"omitempty,gte=0,lte=100"`
	WinLossReason       *string    `json:"winLossReason"`
	LastInteraction     *time.Time `json:"lastInteraction"`
	NextAction          *string    `json:"nextAction"`
	PartnerOrg          *string    `json:"partnerOrg"`
	Industry            *string    `json:"industry"`
	Region              *string    `json:"region"`
	Country             *string    `json:"country"`
	Solution            *string    `json:"solution"`
	Currency            *string    `json:"currency" validate:"omitempty,len=3"`
	Stage               *string    `json:"stage" validate:"omitempty,oneof=Prospecting 'Needs Analysis' Proposal Negotiation 'Closed Won' 'Closed Lost'"`
	ExpectedClosureDate *string    `json:"expectedClosureDate"`
}

type OpportunityResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TaskID              string     `json:"taskId"`
	ClientName          string     `json:"clientName"`
	OpportunityName     string     `json:"opportunityName"`
	SalesOwner          string     `json:"salesOwner"`
	DealValue           float64    `json:"dealValue"`
	ProbabilityPercent  int        `json:"probabilityPercent"`
	WinLossReason       *string    `json:"winLossReason,omitempty"`
	LastInteraction     *time.Time `json:"lastInteraction,omitempty"`
	NextAction          string     `json:"nextAction"`
	PartnerOrg          string     `json:"partnerOrg"`
	Industry            string     `json:"industry"`
	Region              string     `json:"region"`
	Country             string     `json:"country"`
	Solution            string     `json:"solution"`
	Currency            string     `json:"currency"`
	Stage               string     `json:"stage"`
	ExpectedClosureDate *string    `json:"expectedClosureDate,omitempty"`
	LinkedLeadID        *uuid.UUID `json:"linkedLeadId,omitempty"`
	LinkedSOWID         *uuid.UUID `json:"linkedSowId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func toResponse(opp Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:                  opp.ID,
		TaskID:              opp.TaskID,
		ClientName:          opp.ClientName,
		OpportunityName:     opp.OpportunityName,
		SalesOwner:          opp.SalesOwner,
		DealValue:           opp.DealValue,
		ProbabilityPercent:  opp.ProbabilityPercent,
		WinLossReason:       opp.WinLossReason,
		LastInteraction:     opp.LastInteraction,
		NextAction:          opp.NextAction,
		PartnerOrg:          opp.PartnerOrg,
		Industry:            opp.Industry,
		Region:              opp.Region,
		Country:             opp.Country,
		Solution:            opp.Solution,
		Currency:            opp.Currency,
		Stage:               opp.Stage,
		ExpectedClosureDate: opp.ExpectedClosureDate,
		LinkedLeadID:        opp.LinkedLeadID,
		LinkedSOWID:         opp.LinkedSOWID,
		CreatedAt:           opp.CreatedAt,
		UpdatedAt:           opp.UpdatedAt,
	}
}

func toResponses(opps []Opportunity) []OpportunityResponse {
	out := make([]OpportunityResponse, 0, len(opps))
	for _, opp := range opps {
		out = append(out, toResponse(opp))
	}
	return out
}
