// Package domain provides core business rules for the leads bounded context.
package domain

import "time"

// Stage is the caller-controlled pipeline position of a lead.
type Stage string

const (
	StageNew         Stage = "New"
	StageInProgress  Stage = "In Progress"
	StageQualified   Stage = "Qualified"
	StageUnqualified Stage = "Unqualified"
)

// Valid reports whether the stage is one of the known pipeline positions.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageQualified, StageUnqualified:
		return true
	}
	return false
}

// Status is the system-derived lifecycle label of a lead. It is never
// settable by a caller; it is always recomputed from stage and follow-up date.
type Status string

const (
	StatusActive    Status = "Active"
	StatusDelayed   Status = "Delayed"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

// Valid reports whether the status is one of the known lifecycle labels.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDelayed, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Reason identifies why a status transition happened.
type Reason string

const (
	ReasonStageChange  Reason = "Stage change"
	ReasonDateExceeded Reason = "Date exceeded"
	ReasonDateUpdated  Reason = "Date updated"
	ReasonLeadCreated  Reason = "Lead created"
)

// followupDateLayout is the day-granularity format used for follow-up dates.
const followupDateLayout = "2006-01-02"

// ComputeStatus derives a lead's status from its stage, optional follow-up
// date and previously stored status. It is pure and total: a malformed
// follow-up date is treated as absent, never an error.
//
// Rules, first match wins:
//  1. Qualified        -> Completed, "Stage change"
//  2. Unqualified      -> Rejected,  "Stage change"
//  3. New/In Progress with a follow-up date:
//     overdue          -> Delayed,   "Date exceeded"
//     else, previously Delayed -> Active, "Date updated"
//  4. default          -> Active,    "Stage change"
//
// Dates and now are normalized to midnight UTC before comparison, so a
// follow-up due today is not overdue.
func ComputeStatus(stage Stage, nextFollowup *string, previous Status, now time.Time) (Status, Reason) {
	if stage == StageQualified {
		return StatusCompleted, ReasonStageChange
	}
	if stage == StageUnqualified {
		return StatusRejected, ReasonStageChange
	}

	if (stage == StageNew || stage == StageInProgress) && nextFollowup != nil && *nextFollowup != "" {
		if followup, ok := parseFollowup(*nextFollowup); ok {
			today := truncateToDayUTC(now)
			if followup.Before(today) {
				return StatusDelayed, ReasonDateExceeded
			}
			if previous == StatusDelayed {
				return StatusActive, ReasonDateUpdated
			}
		}
	}

	return StatusActive, ReasonStageChange
}

// parseFollowup accepts a plain date or an RFC 3339 timestamp and returns
// the date truncated to midnight UTC. ok is false when the value does not
// parse as either.
func parseFollowup(raw string) (time.Time, bool) {
	if t, err := time.Parse(followupDateLayout, raw); err == nil {
		return truncateToDayUTC(t), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return truncateToDayUTC(t), true
	}
	return time.Time{}, false
}

func truncateToDayUTC(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
