package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusChangeEntry is one record in a lead's append-only status audit trail.
// Entries are chronological and never rewritten or pruned. PreviousStatus is
// nil only for the creation entry.
type StatusChangeEntry struct {
	LeadID            uuid.UUID `json:"lead_id"`
	PreviousStatus    *Status   `json:"previous_status"`
	NewStatus         Status    `json:"new_status"`
	Reason            Reason    `json:"reason"`
	ChangedAt         time.Time `json:"changed_at"`
	ChangedByUserID   uuid.UUID `json:"changed_by_user_id"`
	ChangedByUserName string    `json:"changed_by_user_name"`
	SystemGenerated   bool      `json:"system_generated"`
}

// Actor identifies who triggered a lead mutation for audit attribution.
// The engine itself always marks entries system-generated; the actor is the
// user on whose request the recomputation ran.
type Actor struct {
	UserID   uuid.UUID
	UserName string
}

// NewStatusChangeEntry builds a log entry for a transition. SystemGenerated
// is always true: no caller ever sets lead status directly.
func NewStatusChangeEntry(leadID uuid.UUID, previous *Status, next Status, reason Reason, actor Actor, now time.Time) StatusChangeEntry {
	return StatusChangeEntry{
		LeadID:            leadID,
		PreviousStatus:    previous,
		NewStatus:         next,
		Reason:            reason,
		ChangedAt:         now,
		ChangedByUserID:   actor.UserID,
		ChangedByUserName: actor.UserName,
		SystemGenerated:   true,
	}
}
