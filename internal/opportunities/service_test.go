package opportunities

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/logger"
)

type fakeStore struct {
	opps map[uuid.UUID]Opportunity
}

func newFakeStore() *fakeStore {
	return &fakeStore{opps: make(map[uuid.UUID]Opportunity)}
}

func (f *fakeStore) Create(_ context.Context, params CreateParams) (Opportunity, error) {
	opp := Opportunity{
		ID:                 uuid.New(),
		TaskID:             params.TaskID,
		ClientName:         params.ClientName,
		OpportunityName:    params.OpportunityName,
		SalesOwner:         params.SalesOwner,
		DealValue:          params.DealValue,
		ProbabilityPercent: params.ProbabilityPercent,
		Currency:           params.Currency,
		Stage:              params.Stage,
		LinkedLeadID:       params.LinkedLeadID,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	f.opps[opp.ID] = opp
	return opp, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (Opportunity, error) {
	opp, ok := f.opps[id]
	if !ok {
		return Opportunity{}, ErrNotFound
	}
	return opp, nil
}

func (f *fakeStore) List(_ context.Context, stage string) ([]Opportunity, error) {
	out := make([]Opportunity, 0)
	for _, opp := range f.opps {
		if stage == "" || opp.Stage == stage {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params UpdateParams) (Opportunity, error) {
	opp, ok := f.opps[id]
	if !ok {
		return Opportunity{}, ErrNotFound
	}
	if params.Stage != nil {
		opp.Stage = *params.Stage
	}
	if params.DealValue != nil {
		opp.DealValue = *params.DealValue
	}
	if params.ProbabilityPercent != nil {
		opp.ProbabilityPercent = *params.ProbabilityPercent
	}
	if params.WinLossReason != nil {
		opp.WinLossReason = params.WinLossReason
	}
	f.opps[id] = opp
	return opp, nil
}

func (f *fakeStore) SetLinkedSOW(_ context.Context, id uuid.UUID, sowID uuid.UUID) (bool, error) {
	opp, ok := f.opps[id]
	if !ok {
		return false, ErrNotFound
	}
	if opp.LinkedSOWID != nil {
		return false, nil
	}
	opp.LinkedSOWID = &sowID
	f.opps[id] = opp
	return true, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.opps[id]; !ok {
		return ErrNotFound
	}
	delete(f.opps, id)
	return nil
}

type fakeIDs struct {
	next int64
}

func (f *fakeIDs) NextTaskID(_ context.Context) (string, error) {
	f.next++
	return fmt.Sprintf("SAL%04d", f.next), nil
}

type fakeLinker struct {
	linked map[uuid.UUID]uuid.UUID
}

func (f *fakeLinker) LinkOpportunity(_ context.Context, leadID, opportunityID uuid.UUID) (bool, error) {
	if f.linked == nil {
		f.linked = make(map[uuid.UUID]uuid.UUID)
	}
	if _, ok := f.linked[leadID]; ok {
		return false, nil
	}
	f.linked[leadID] = opportunityID
	return true, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(store *fakeStore) (*Service, *recordingBus, *fakeLinker) {
	bus := &recordingBus{}
	linker := &fakeLinker{}
	svc := NewService(store, &fakeIDs{}, linker, bus, logger.New("test"))
	return svc, bus, linker
}

func TestCreateMintsTaskIDAndDefaults(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	opp, err := svc.Create(context.Background(), CreateParams{
		ClientName:      "Globex",
		OpportunityName: "Globex rollout",
		DealValue:       50000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if opp.TaskID != "SAL0001" {
		t.Errorf("task ID = %q, want SAL0001", opp.TaskID)
	}
	if opp.Stage != StageProspecting {
		t.Errorf("stage = %q, want %q", opp.Stage, StageProspecting)
	}
	if opp.Currency != "USD" {
		t.Errorf("currency = %q, want USD", opp.Currency)
	}
}

func TestConvertFromLeadSharesTaskID(t *testing.T) {
	store := newFakeStore()
	svc, _, linker := newTestService(store)

	leadID := uuid.New()
	err := svc.ConvertFromLead(context.Background(), events.LeadQualified{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          leadID,
		TaskID:          "SAL0042",
		ClientName:      "Initech",
		OpportunityName: "Initech migration",
		EstimatedValue:  120000,
		Currency:        "EUR",
	})
	if err != nil {
		t.Fatalf("ConvertFromLead: %v", err)
	}

	opps, _ := store.List(context.Background(), "")
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}
	opp := opps[0]
	if opp.TaskID != "SAL0042" {
		t.Errorf("task ID = %q, want the lead's SAL0042", opp.TaskID)
	}
	if opp.LinkedLeadID == nil || *opp.LinkedLeadID != leadID {
		t.Errorf("linked lead ID = %v, want %s", opp.LinkedLeadID, leadID)
	}
	if got := linker.linked[leadID]; got != opp.ID {
		t.Errorf("lead back-link = %s, want %s", got, opp.ID)
	}
}

func TestConvertFromLeadRedeliveryLeavesOneOpportunity(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	evt := events.LeadQualified{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     uuid.New(),
		TaskID:     "SAL0042",
		ClientName: "Initech",
	}
	for i := 0; i < 2; i++ {
		if err := svc.ConvertFromLead(context.Background(), evt); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	opps, _ := store.List(context.Background(), "")
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities after redelivery, want 1", len(opps))
	}
}

func TestClosedWonPublishesOnceOnTransition(t *testing.T) {
	store := newFakeStore()
	svc, bus, _ := newTestService(store)

	opp, err := svc.Create(context.Background(), CreateParams{
		ClientName:      "Hooli",
		OpportunityName: "Hooli platform",
		DealValue:       90000,
		Stage:           StageNegotiation,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	won := StageClosedWon
	if _, err := svc.Update(context.Background(), opp.ID, UpdateParams{Stage: &won}); err != nil {
		t.Fatalf("Update to won: %v", err)
	}

	wonEvents := 0
	for _, evt := range bus.published {
		if _, ok := evt.(events.OpportunityWon); ok {
			wonEvents++
		}
	}
	if wonEvents != 1 {
		t.Fatalf("got %d won events after first transition, want 1", wonEvents)
	}

	// Updating an already-won opportunity must not re-announce the win.
	reason := "signed after final demo"
	if _, err := svc.Update(context.Background(), opp.ID, UpdateParams{WinLossReason: &reason}); err != nil {
		t.Fatalf("Update reason: %v", err)
	}
	wonEvents = 0
	for _, evt := range bus.published {
		if _, ok := evt.(events.OpportunityWon); ok {
			wonEvents++
		}
	}
	if wonEvents != 1 {
		t.Errorf("got %d won events after second update, want 1", wonEvents)
	}
}

func TestUpdateRejectsInvalidStageAndProbability(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	opp, _ := svc.Create(context.Background(), CreateParams{
		ClientName:      "Acme",
		OpportunityName: "Acme pilot",
	})

	bad := "Daydreaming"
	if _, err := svc.Update(context.Background(), opp.ID, UpdateParams{Stage: &bad}); err == nil {
		t.Error("expected error for unknown stage")
	}
	over := 120
	if _, err := svc.Update(context.Background(), opp.ID, UpdateParams{ProbabilityPercent: &over}); err == nil {
		t.Error("expected error for probability over 100")
	}
}

func TestLinkSOWIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	opp, _ := svc.Create(context.Background(), CreateParams{
		ClientName:      "Stark",
		OpportunityName: "Stark expansion",
	})

	first := uuid.New()
	took, err := svc.LinkSOW(context.Background(), opp.ID, first)
	if err != nil {
		t.Fatalf("LinkSOW: %v", err)
	}
	if !took {
		t.Fatal("first LinkSOW reported the link as already taken")
	}
	second := uuid.New()
	took, err = svc.LinkSOW(context.Background(), opp.ID, second)
	if err != nil {
		t.Fatalf("second LinkSOW: %v", err)
	}
	if took {
		t.Error("second LinkSOW claimed the link, want write-once refusal")
	}

	got, _ := store.GetByID(context.Background(), opp.ID)
	if got.LinkedSOWID == nil || *got.LinkedSOWID != first {
		t.Errorf("linked SOW = %v, want the first link %s to stick", got.LinkedSOWID, first)
	}
}
