// Package transport defines the request and response shapes of the leads API.
package transport

import (
	"time"

	"sales_crm_backend/internal/leads/domain"
	"sales_crm_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	ClientName          string  `json:"client_name" validate:"required,min=1,max=200"`
	OpportunityName     string  `json:"opportunity_name" validate:"required,min=1,max=200"`
	LeadScore           int     `json:"lead_score" validate:"min=0,max=100"`
	SalesPOC            string  `json:"sales_poc"`
	NextFollowup        *string `json:"next_followup"`
	LeadSource          string  `json:"lead_source"`
	Region              string  `json:"region"`
	Country             string  `json:"country"`
	Industry            string  `json:"industry"`
	ContactPerson       string  `json:"contact_person"`
	ContactEmail        *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        *string `json:"contact_phone"`
	Solution            string  `json:"solution"`
	EstimatedValue      float64 `json:"estimated_value" validate:"min=0"`
	Currency            string  `json:"currency"`
	Stage               string  `json:"stage" validate:"omitempty,oneof=New 'In Progress' Qualified Unqualified"`
	Probability         int     `json:"probability" validate:"min=0,max=100"`
	ExpectedClosureDate *string `json:"expected_closure_date"`
	NextAction          string  `json:"next_action"`
	Notes               string  `json:"notes"`
	Comments            string  `json:"comments"`
}

type UpdateLeadRequest struct {
	ClientName          *string  `json:"client_name" validate:"omitempty,min=1,max=200"`
	OpportunityName     *string  `json:"opportunity_name" validate:"omitempty,min=1,max=200"`
	LeadScore           *int     `json:"lead_score" validate:"omitempty,min=0,max=100"`
	SalesPOC            *string  `json:"sales_poc"`
	NextFollowup        *string  `json:"next_followup"`
	LeadSource          *string  `json:"lead_source"`
	Region              *string  `json:"region"`
	Country             *string  `json:"country"`
	Industry            *string  `json:"industry"`
	ContactPerson       *string  `json:"contact_person"`
	ContactEmail        *string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        *string  `json:"contact_phone"`
	Solution            *string  `json:"solution"`
	EstimatedValue      *float64 `json:"estimated_value" validate:"omitempty,min=0"`
	Currency            *string  `json:"currency"`
	Stage               *string  `json:"stage" validate:"omitempty,oneof=New 'In Progress' Qualified Unqualified"`
	Probability         *int     `json:"probability" validate:"omitempty,min=0,max=100"`
	ExpectedClosureDate *string  `json:"expected_closure_date"`
	NextAction          *string  `json:"next_action"`
	Notes               *string  `json:"notes"`
	Comments            *string  `json:"comments"`
}

type LeadResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TaskID              string     `json:"task_id"`
	ClientName          string     `json:"client_name"`
	OpportunityName     string     `json:"opportunity_name"`
	LeadScore           int        `json:"lead_score"`
	SalesPOC            string     `json:"sales_poc"`
	LeadOwner           string     `json:"lead_owner"`
	NextFollowup        *string    `json:"next_followup"`
	LeadSource          string     `json:"lead_source"`
	Region              string     `json:"region"`
	Country             string     `json:"country"`
	Industry            string     `json:"industry"`
	ContactPerson       string     `json:"contact_person"`
	ContactEmail        *string    `json:"contact_email"`
	ContactPhone        *string    `json:"contact_phone"`
	Solution            string     `json:"solution"`
	EstimatedValue      float64    `json:"estimated_value"`
	Currency            string     `json:"currency"`
	Stage               string     `json:"stage"`
	Probability         int        `json:"probability"`
	ExpectedClosureDate *string    `json:"expected_closure_date"`
	NextAction          string     `json:"next_action"`
	Notes               string     `json:"notes"`
	Comments            string     `json:"comments"`
	LeadStatus          string     `json:"lead_status"`
	LinkedOpportunityID *uuid.UUID `json:"linked_opportunity_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type StatusChangeLogResponse struct {
	LeadID        uuid.UUID                  `json:"lead_id"`
	StatusHistory []domain.StatusChangeEntry `json:"status_history"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                  lead.ID,
		TaskID:              lead.TaskID,
		ClientName:          lead.ClientName,
		OpportunityName:     lead.OpportunityName,
		LeadScore:           lead.LeadScore,
		SalesPOC:            lead.SalesPOC,
		LeadOwner:           lead.LeadOwner,
		NextFollowup:        lead.NextFollowup,
		LeadSource:          lead.LeadSource,
		Region:              lead.Region,
		Country:             lead.Country,
		Industry:            lead.Industry,
		ContactPerson:       lead.ContactPerson,
		ContactEmail:        lead.ContactEmail,
		ContactPhone:        lead.ContactPhone,
		Solution:            lead.Solution,
		EstimatedValue:      lead.EstimatedValue,
		Currency:            lead.Currency,
		Stage:               string(lead.Stage),
		Probability:         lead.Probability,
		ExpectedClosureDate: lead.ExpectedClosureDate,
		NextAction:          lead.NextAction,
		Notes:               lead.Notes,
		Comments:            lead.Comments,
		LeadStatus:          string(lead.LeadStatus),
		LinkedOpportunityID: lead.LinkedOpportunityID,
		CreatedAt:           lead.CreatedAt,
		UpdatedAt:           lead.UpdatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}
