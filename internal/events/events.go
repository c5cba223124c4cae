// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"sales_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	TaskID string    `json:"taskId"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published whenever the status engine records a
// transition on a lead.
type LeadStatusChanged struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Reason         string    `json:"reason"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadQualified is published when a lead's stage moves to Qualified. The
// opportunities module converts the lead into an opportunity carrying the
// same Task ID.
type LeadQualified struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	TaskID          string    `json:"taskId"`
	ClientName      string    `json:"clientName"`
	OpportunityName string    `json:"opportunityName"`
	LeadOwner       string    `json:"leadOwner"`
	EstimatedValue  float64   `json:"estimatedValue"`
	Currency        string    `json:"currency"`
	Region          string    `json:"region"`
	Country         string    `json:"country"`
	Industry        string    `json:"industry"`
	Solution        string    `json:"solution"`
	ActorUserID     uuid.UUID `json:"actorUserId"`
	ActorUserName   string    `json:"actorUserName"`
}

func (e LeadQualified) EventName() string { return "leads.lead.qualified" }

// =============================================================================
// Opportunity Domain Events
// =============================================================================

// OpportunityWon is published when an opportunity reaches Closed Won. The
// sows and forecasts workflows hang off this event.
type OpportunityWon struct {
	BaseEvent
	OpportunityID   uuid.UUID `json:"opportunityId"`
	TaskID          string    `json:"taskId"`
	ClientName      string    `json:"clientName"`
	OpportunityName string    `json:"opportunityName"`
	SalesOwner      string    `json:"salesOwner"`
	DealValue       float64   `json:"dealValue"`
	Currency        string    `json:"currency"`
}

func (e OpportunityWon) EventName() string { return "opportunities.opportunity.won" }

// =============================================================================
// User Domain Events
// =============================================================================

// UserCreated is published when an admin creates a user account. The email
// module sends the welcome mail with the temporary password.
type UserCreated struct {
	BaseEvent
	UserID            uuid.UUID `json:"userId"`
	Email             string    `json:"email"`
	FullName          string    `json:"fullName"`
	TemporaryPassword string    `json:"temporaryPassword"`
}

func (e UserCreated) EventName() string { return "users.user.created" }
