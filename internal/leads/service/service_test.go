package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sales_crm_backend/internal/leads/domain"
	"sales_crm_backend/internal/leads/repository"
	"sales_crm_backend/internal/leads/transport"

	"github.com/google/uuid"
)

type fakeStore struct {
	leads   map[uuid.UUID]repository.Lead
	logs    map[uuid.UUID][]domain.StatusChangeEntry
	created int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads: make(map[uuid.UUID]repository.Lead),
		logs:  make(map[uuid.UUID][]domain.StatusChangeEntry),
	}
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams, entry domain.StatusChangeEntry) (repository.Lead, error) {
	f.created++
	lead := repository.Lead{
		ID:              uuid.New(),
		TaskID:          params.TaskID,
		ClientName:      params.ClientName,
		OpportunityName: params.OpportunityName,
		SalesPOC:        params.SalesPOC,
		LeadOwner:       params.LeadOwner,
		NextFollowup:    params.NextFollowup,
		EstimatedValue:  params.EstimatedValue,
		Currency:        params.Currency,
		Stage:           params.Stage,
		LeadStatus:      params.LeadStatus,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.leads[lead.ID] = lead
	entry.LeadID = lead.ID
	f.logs[lead.ID] = append(f.logs[lead.ID], entry)
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams, status domain.Status, entry *domain.StatusChangeEntry) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Stage != nil {
		lead.Stage = *params.Stage
	}
	if params.NextFollowup != nil {
		lead.NextFollowup = params.NextFollowup
	}
	if params.ClientName != nil {
		lead.ClientName = *params.ClientName
	}
	lead.LeadStatus = status
	f.leads[id] = lead
	if entry != nil {
		f.logs[id] = append(f.logs[id], *entry)
	}
	return lead, nil
}

func (f *fakeStore) WriteBackStatus(_ context.Context, id uuid.UUID, status domain.Status, entry domain.StatusChangeEntry) error {
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.LeadStatus = status
	f.leads[id] = lead
	f.logs[id] = append(f.logs[id], entry)
	return nil
}

func (f *fakeStore) ListStatusLog(_ context.Context, leadID uuid.UUID) ([]domain.StatusChangeEntry, error) {
	return f.logs[leadID], nil
}

func (f *fakeStore) SetLinkedOpportunity(_ context.Context, id uuid.UUID, opportunityID uuid.UUID) (bool, error) {
	lead, ok := f.leads[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if lead.LinkedOpportunityID != nil {
		return false, nil
	}
	lead.LinkedOpportunityID = &opportunityID
	f.leads[id] = lead
	return true, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

type fakeIDs struct{ next int64 }

func (f *fakeIDs) NextTaskID(context.Context) (string, error) {
	f.next++
	return fmt.Sprintf("SAL%04d", f.next), nil
}

var testActor = domain.Actor{UserID: uuid.New(), UserName: "Jane Seller"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var baseNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, now time.Time) *Service {
	return New(store, &fakeIDs{}, nil, fixedClock(now))
}

func TestCreateSeedsStatusAndLog(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	resp, err := svc.Create(ctx, transport.CreateLeadRequest{
		ClientName:      "Acme",
		OpportunityName: "Acme Rollout",
	}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.TaskID != "SAL0001" {
		t.Errorf("task id = %q, want SAL0001", resp.TaskID)
	}
	if resp.LeadStatus != string(domain.StatusActive) {
		t.Errorf("status = %q, want Active", resp.LeadStatus)
	}
	if resp.Stage != string(domain.StageNew) {
		t.Errorf("stage defaulted to %q, want New", resp.Stage)
	}

	logs := store.logs[resp.ID]
	if len(logs) != 1 {
		t.Fatalf("creation log entries = %d, want 1", len(logs))
	}
	if logs[0].PreviousStatus != nil {
		t.Error("creation entry must have nil previous status")
	}
	if logs[0].Reason != domain.ReasonLeadCreated {
		t.Errorf("creation reason = %q, want %q", logs[0].Reason, domain.ReasonLeadCreated)
	}
	if !logs[0].SystemGenerated {
		t.Error("creation entry must be system generated")
	}
}

func TestUpdateToQualifiedAppendsOneEntry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		ClientName:      "Acme",
		OpportunityName: "Acme Rollout",
	}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	qualified := string(domain.StageQualified)
	updated, err := svc.Update(ctx, created.ID, transport.UpdateLeadRequest{Stage: &qualified}, testActor)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.LeadStatus != string(domain.StatusCompleted) {
		t.Errorf("status = %q, want Completed", updated.LeadStatus)
	}

	logs := store.logs[created.ID]
	if len(logs) != 2 {
		t.Fatalf("log entries = %d, want 2", len(logs))
	}
	last := logs[1]
	if last.PreviousStatus == nil || *last.PreviousStatus != domain.StatusActive {
		t.Errorf("previous status = %v, want Active", last.PreviousStatus)
	}
	if last.NewStatus != domain.StatusCompleted {
		t.Errorf("new status = %q, want Completed", last.NewStatus)
	}
}

func TestUpdateWithoutStatusChangeAppendsNothing(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		ClientName:      "Acme",
		OpportunityName: "Acme Rollout",
	}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Acme Corp"
	if _, err := svc.Update(ctx, created.ID, transport.UpdateLeadRequest{ClientName: &name}, testActor); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := len(store.logs[created.ID]); got != 1 {
		t.Errorf("log entries after no-op status update = %d, want 1", got)
	}
}

// A lead whose follow-up date silently passed must be corrected on read,
// with exactly one write-back and one log entry.
func TestReconcileWritesBackTimeDrift(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	followup := "2025-06-20"
	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		ClientName:      "Acme",
		OpportunityName: "Acme Rollout",
		NextFollowup:    &followup,
	}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.LeadStatus != string(domain.StatusActive) {
		t.Fatalf("initial status = %q, want Active", created.LeadStatus)
	}

	// A week later the follow-up date has passed without any edit.
	later := New(store, &fakeIDs{}, nil, fixedClock(baseNow.AddDate(0, 0, 7)))

	got, err := later.GetByID(ctx, created.ID, testActor)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LeadStatus != string(domain.StatusDelayed) {
		t.Errorf("status after drift = %q, want Delayed", got.LeadStatus)
	}

	logs := store.logs[created.ID]
	if len(logs) != 2 {
		t.Fatalf("log entries = %d, want 2", len(logs))
	}
	if logs[1].Reason != domain.ReasonDateExceeded {
		t.Errorf("drift reason = %q, want %q", logs[1].Reason, domain.ReasonDateExceeded)
	}

	// A second read must not append another entry.
	if _, err := later.GetByID(ctx, created.ID, testActor); err != nil {
		t.Fatalf("second GetByID: %v", err)
	}
	if got := len(store.logs[created.ID]); got != 2 {
		t.Errorf("log entries after idempotent read = %d, want 2", got)
	}
}

func TestReconcileRecoversFromDelay(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	followup := "2025-06-10"
	svc := newTestService(store, baseNow)
	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		ClientName:      "Acme",
		OpportunityName: "Acme Rollout",
		NextFollowup:    &followup,
	}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.LeadStatus != string(domain.StatusDelayed) {
		t.Fatalf("initial status = %q, want Delayed", created.LeadStatus)
	}

	newFollowup := "2025-06-25"
	updated, err := svc.Update(ctx, created.ID, transport.UpdateLeadRequest{NextFollowup: &newFollowup}, testActor)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.LeadStatus != string(domain.StatusActive) {
		t.Errorf("status after new followup = %q, want Active", updated.LeadStatus)
	}

	logs := store.logs[created.ID]
	if len(logs) != 2 {
		t.Fatalf("log entries = %d, want 2", len(logs))
	}
	if logs[1].Reason != domain.ReasonDateUpdated {
		t.Errorf("recovery reason = %q, want %q", logs[1].Reason, domain.ReasonDateUpdated)
	}
}

func TestSweepStatusesCountsCorrections(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	overdue := "2025-06-20"
	future := "2025-07-20"
	if _, err := svc.Create(ctx, transport.CreateLeadRequest{ClientName: "A", OpportunityName: "A1", NextFollowup: &overdue}, testActor); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, transport.CreateLeadRequest{ClientName: "B", OpportunityName: "B1", NextFollowup: &future}, testActor); err != nil {
		t.Fatalf("Create: %v", err)
	}

	later := New(store, &fakeIDs{}, nil, fixedClock(baseNow.AddDate(0, 0, 10)))
	corrected, err := later.SweepStatuses(ctx)
	if err != nil {
		t.Fatalf("SweepStatuses: %v", err)
	}
	if corrected != 1 {
		t.Errorf("corrected = %d, want 1", corrected)
	}
}

func TestLinkOpportunityIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, baseNow)

	created, err := svc.Create(ctx, transport.CreateLeadRequest{ClientName: "Acme", OpportunityName: "Acme Rollout"}, testActor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	oppID := uuid.New()
	linked, err := svc.LinkOpportunity(ctx, created.ID, oppID)
	if err != nil || !linked {
		t.Fatalf("first link: linked=%v err=%v", linked, err)
	}

	linked, err = svc.LinkOpportunity(ctx, created.ID, uuid.New())
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if linked {
		t.Error("second link must report not linked")
	}
}
