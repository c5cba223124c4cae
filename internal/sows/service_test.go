package sows

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/logger"
)

type fakeStore struct {
	sows map[uuid.UUID]SOW
}

func newFakeStore() *fakeStore {
	return &fakeStore{sows: make(map[uuid.UUID]SOW)}
}

func (f *fakeStore) Create(_ context.Context, params CreateParams) (SOW, error) {
	s := SOW{
		ID:                  uuid.New(),
		TaskID:              params.TaskID,
		ClientName:          params.ClientName,
		ProjectName:         params.ProjectName,
		Owner:               params.Owner,
		Description:         params.Description,
		Value:               params.Value,
		Currency:            params.Currency,
		Status:              params.Status,
		LinkedOpportunityID: params.LinkedOpportunityID,
	}
	f.sows[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (SOW, error) {
	s, ok := f.sows[id]
	if !ok {
		return SOW{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) List(_ context.Context, status string) ([]SOW, error) {
	out := make([]SOW, 0)
	for _, s := range f.sows {
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params UpdateParams) (SOW, error) {
	s, ok := f.sows[id]
	if !ok {
		return SOW{}, ErrNotFound
	}
	if params.Status != nil {
		s.Status = *params.Status
	}
	if params.Value != nil {
		s.Value = *params.Value
	}
	f.sows[id] = s
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.sows[id]; !ok {
		return ErrNotFound
	}
	delete(f.sows, id)
	return nil
}

type fakeIDs struct {
	next int64
}

func (f *fakeIDs) NextTaskID(_ context.Context) (string, error) {
	f.next++
	return fmt.Sprintf("SAL%04d", f.next), nil
}

type fakeOpps struct {
	links map[uuid.UUID]uuid.UUID
}

func (f *fakeOpps) LinkSOW(_ context.Context, opportunityID, sowID uuid.UUID) (bool, error) {
	if f.links == nil {
		f.links = make(map[uuid.UUID]uuid.UUID)
	}
	if _, ok := f.links[opportunityID]; ok {
		return false, nil
	}
	f.links[opportunityID] = sowID
	return true, nil
}

func (f *fakeOpps) IsLinked(_ context.Context, opportunityID uuid.UUID) (bool, error) {
	_, ok := f.links[opportunityID]
	return ok, nil
}

func newTestService(store *fakeStore) (*Service, *fakeOpps) {
	opps := &fakeOpps{}
	return NewService(store, &fakeIDs{}, opps, logger.New("test")), opps
}

func TestCreateDefaultsAndMintsTaskID(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	sow, err := svc.Create(context.Background(), CreateParams{
		ClientName:  "Initech",
		ProjectName: "Phase 1 delivery",
		Value:       75000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sow.TaskID != "SAL0001" {
		t.Errorf("task ID = %q, want SAL0001", sow.TaskID)
	}
	if sow.Status != StatusDraft {
		t.Errorf("status = %q, want %q", sow.Status, StatusDraft)
	}
}

func TestDraftFromWinCreatesLinkedDraft(t *testing.T) {
	store := newFakeStore()
	svc, opps := newTestService(store)

	oppID := uuid.New()
	evt := events.OpportunityWon{
		BaseEvent:       events.NewBaseEvent(),
		OpportunityID:   oppID,
		TaskID:          "SAL0042",
		ClientName:      "Globex",
		OpportunityName: "Globex rollout",
		DealValue:       120000,
		Currency:        "EUR",
	}
	if err := svc.DraftFromWin(context.Background(), evt); err != nil {
		t.Fatalf("DraftFromWin: %v", err)
	}

	sows, _ := store.List(context.Background(), "")
	if len(sows) != 1 {
		t.Fatalf("got %d SOWs, want 1", len(sows))
	}
	s := sows[0]
	if s.TaskID != "SAL0042" {
		t.Errorf("task ID = %q, want the opportunity's SAL0042", s.TaskID)
	}
	if s.Status != StatusDraft {
		t.Errorf("status = %q, want %q", s.Status, StatusDraft)
	}
	if s.LinkedOpportunityID == nil || *s.LinkedOpportunityID != oppID {
		t.Errorf("linked opportunity = %v, want %s", s.LinkedOpportunityID, oppID)
	}
	if got := opps.links[oppID]; got != s.ID {
		t.Errorf("opportunity back-link = %s, want %s", got, s.ID)
	}

	// Redelivery of the same win must not draft a second SOW.
	if err := svc.DraftFromWin(context.Background(), evt); err != nil {
		t.Fatalf("second DraftFromWin: %v", err)
	}
	sows, _ = store.List(context.Background(), "")
	if len(sows) != 1 {
		t.Errorf("got %d SOWs after redelivery, want 1", len(sows))
	}
}

// staleOpps reports the opportunity as unlinked even after a link is taken,
// the state a second delivery sees when it races the first past the
// pre-check. Only the write-once link itself stays honest.
type staleOpps struct {
	fakeOpps
}

func (f *staleOpps) IsLinked(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func TestDraftFromWinRaceDiscardsOrphanDraft(t *testing.T) {
	store := newFakeStore()
	opps := &staleOpps{}
	svc := NewService(store, &fakeIDs{}, opps, logger.New("test"))

	oppID := uuid.New()
	evt := events.OpportunityWon{
		BaseEvent:       events.NewBaseEvent(),
		OpportunityID:   oppID,
		TaskID:          "SAL0042",
		ClientName:      "Globex",
		OpportunityName: "Globex rollout",
		DealValue:       120000,
		Currency:        "EUR",
	}
	for i := 0; i < 2; i++ {
		if err := svc.DraftFromWin(context.Background(), evt); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	sows, _ := store.List(context.Background(), "")
	if len(sows) != 1 {
		t.Fatalf("got %d SOWs after racing deliveries, want 1", len(sows))
	}
	if got := opps.links[oppID]; got != sows[0].ID {
		t.Errorf("opportunity links to %s, want the surviving SOW %s", got, sows[0].ID)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	sow, _ := svc.Create(context.Background(), CreateParams{
		ClientName:  "Acme",
		ProjectName: "Acme pilot",
	})

	bad := "Imaginary"
	if _, err := svc.Update(context.Background(), sow.ID, UpdateParams{Status: &bad}); err == nil {
		t.Error("expected error for unknown status")
	}
}
