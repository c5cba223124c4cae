package domain

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 13, 45, 12, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestComputeStatusStageRules(t *testing.T) {
	yesterday := "2025-06-14"

	cases := []struct {
		name       string
		stage      Stage
		followup   *string
		previous   Status
		wantStatus Status
		wantReason Reason
	}{
		{"qualified wins over everything", StageQualified, strPtr(yesterday), StatusDelayed, StatusCompleted, ReasonStageChange},
		{"unqualified wins over everything", StageUnqualified, strPtr(yesterday), StatusActive, StatusRejected, ReasonStageChange},
		{"new without followup is active", StageNew, nil, StatusDelayed, StatusActive, ReasonStageChange},
		{"in progress without followup is active", StageInProgress, nil, StatusCompleted, StatusActive, ReasonStageChange},
		{"empty followup treated as absent", StageNew, strPtr(""), StatusDelayed, StatusActive, ReasonStageChange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, reason := ComputeStatus(tc.stage, tc.followup, tc.previous, testNow)
			if status != tc.wantStatus || reason != tc.wantReason {
				t.Errorf("ComputeStatus(%q) = (%q, %q), want (%q, %q)",
					tc.stage, status, reason, tc.wantStatus, tc.wantReason)
			}
		})
	}
}

func TestComputeStatusFollowupDates(t *testing.T) {
	cases := []struct {
		name       string
		stage      Stage
		followup   string
		previous   Status
		wantStatus Status
		wantReason Reason
	}{
		{"yesterday is delayed", StageNew, "2025-06-14", StatusActive, StatusDelayed, ReasonDateExceeded},
		{"last month is delayed", StageInProgress, "2025-05-01", StatusActive, StatusDelayed, ReasonDateExceeded},
		{"today is not delayed", StageNew, "2025-06-15", StatusActive, StatusActive, ReasonStageChange},
		{"tomorrow after delay recovers", StageNew, "2025-06-16", StatusDelayed, StatusActive, ReasonDateUpdated},
		{"tomorrow without delay stays active", StageNew, "2025-06-16", StatusActive, StatusActive, ReasonStageChange},
		{"rfc3339 timestamp accepted", StageNew, "2025-06-14T09:30:00Z", StatusActive, StatusDelayed, ReasonDateExceeded},
		{"malformed date treated as absent", StageNew, "not-a-date", StatusDelayed, StatusActive, ReasonStageChange},
		{"malformed date never errors for in progress", StageInProgress, "15/06/2025", StatusActive, StatusActive, ReasonStageChange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, reason := ComputeStatus(tc.stage, &tc.followup, tc.previous, testNow)
			if status != tc.wantStatus || reason != tc.wantReason {
				t.Errorf("ComputeStatus(%q, %q, %q) = (%q, %q), want (%q, %q)",
					tc.stage, tc.followup, tc.previous, status, reason, tc.wantStatus, tc.wantReason)
			}
		})
	}
}

// A followup due later the same UTC day must not flip the lead to Delayed,
// regardless of the time-of-day on either side.
func TestComputeStatusNormalizesToMidnightUTC(t *testing.T) {
	lateToday := "2025-06-15T23:59:00Z"
	earlyNow := time.Date(2025, time.June, 15, 0, 0, 1, 0, time.UTC)

	status, reason := ComputeStatus(StageNew, &lateToday, StatusActive, earlyNow)
	if status != StatusActive || reason != ReasonStageChange {
		t.Errorf("same-day followup: got (%q, %q), want (%q, %q)",
			status, reason, StatusActive, ReasonStageChange)
	}

	lateNow := time.Date(2025, time.June, 15, 23, 59, 59, 0, time.UTC)
	earlyToday := "2025-06-15T00:00:00Z"
	status, _ = ComputeStatus(StageNew, &earlyToday, StatusActive, lateNow)
	if status != StatusActive {
		t.Errorf("followup at midnight today: got %q, want %q", status, StatusActive)
	}
}

// Terminal-looking states are not enforced by the engine: stage always wins,
// so a Completed lead whose stage reverts flips back per the rules.
func TestComputeStatusStageRevertUnterminates(t *testing.T) {
	overdue := "2025-06-01"

	status, reason := ComputeStatus(StageInProgress, &overdue, StatusCompleted, testNow)
	if status != StatusDelayed || reason != ReasonDateExceeded {
		t.Errorf("revert from Completed: got (%q, %q), want (%q, %q)",
			status, reason, StatusDelayed, ReasonDateExceeded)
	}

	status, reason = ComputeStatus(StageNew, nil, StatusRejected, testNow)
	if status != StatusActive || reason != ReasonStageChange {
		t.Errorf("revert from Rejected: got (%q, %q), want (%q, %q)",
			status, reason, StatusActive, ReasonStageChange)
	}
}

func TestComputeStatusIsPure(t *testing.T) {
	followup := "2025-06-20"
	s1, r1 := ComputeStatus(StageNew, &followup, StatusDelayed, testNow)
	s2, r2 := ComputeStatus(StageNew, &followup, StatusDelayed, testNow)
	if s1 != s2 || r1 != r2 {
		t.Errorf("identical inputs produced different results: (%q,%q) vs (%q,%q)", s1, r1, s2, r2)
	}
}

func TestStageAndStatusValidity(t *testing.T) {
	for _, s := range []Stage{StageNew, StageInProgress, StageQualified, StageUnqualified} {
		if !s.Valid() {
			t.Errorf("stage %q should be valid", s)
		}
	}
	if Stage("Won").Valid() {
		t.Error("unknown stage should not be valid")
	}

	for _, s := range []Status{StatusActive, StatusDelayed, StatusCompleted, StatusRejected} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("Dormant").Valid() {
		t.Error("unknown status should not be valid")
	}
}
