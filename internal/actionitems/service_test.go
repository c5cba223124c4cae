package actionitems

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/platform/logger"
)

var testNow = time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		dueDate *string
		want    string
	}{
		{"no due date keeps status", StatusOpen, nil, StatusOpen},
		{"past due goes overdue", StatusOpen, strptr("2025-06-14"), StatusOverdue},
		{"due today is not overdue", StatusInProgress, strptr("2025-06-15"), StatusInProgress},
		{"future due keeps status", StatusInProgress, strptr("2025-07-01"), StatusInProgress},
		{"completed is terminal", StatusCompleted, strptr("2025-01-01"), StatusCompleted},
		{"overdue recovers when due moves forward", StatusOverdue, strptr("2025-07-01"), StatusOpen},
		{"overdue stays while past due", StatusOverdue, strptr("2025-06-01"), StatusOverdue},
		{"malformed date treated as absent", StatusOpen, strptr("not-a-date"), StatusOpen},
		{"timestamp form accepted", StatusOpen, strptr("2025-06-10T08:00:00Z"), StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.stored, tt.dueDate, testNow); got != tt.want {
				t.Errorf("DeriveStatus(%q, %v) = %q, want %q", tt.stored, tt.dueDate, got, tt.want)
			}
		})
	}
}

type fakeStore struct {
	items      map[uuid.UUID]ActionItem
	writeBacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uuid.UUID]ActionItem)}
}

func (f *fakeStore) Create(_ context.Context, params CreateParams) (ActionItem, error) {
	item := ActionItem{
		ID:         uuid.New(),
		Title:      params.Title,
		AssignedTo: params.AssignedTo,
		Priority:   params.Priority,
		Status:     params.Status,
		DueDate:    params.DueDate,
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (ActionItem, error) {
	item, ok := f.items[id]
	if !ok {
		return ActionItem{}, ErrNotFound
	}
	return item, nil
}

func (f *fakeStore) List(_ context.Context, params ListParams) ([]ActionItem, error) {
	out := make([]ActionItem, 0)
	for _, item := range f.items {
		if params.Status != "" && item.Status != params.Status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params UpdateParams) (ActionItem, error) {
	item, ok := f.items[id]
	if !ok {
		return ActionItem{}, ErrNotFound
	}
	if params.Status != nil {
		item.Status = *params.Status
	}
	if params.DueDate != nil {
		item.DueDate = params.DueDate
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeStore) WriteBackStatus(_ context.Context, id uuid.UUID, status string) error {
	item, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	item.Status = status
	f.items[id] = item
	f.writeBacks++
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, logger.New("test"), func() time.Time { return testNow })
}

func TestGetReconcilesOverdueWithWriteBack(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	item, err := svc.Create(context.Background(), CreateParams{
		Title:   "Send revised proposal",
		DueDate: strptr("2025-07-01"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Status != StatusOpen {
		t.Fatalf("created status = %q, want Open", item.Status)
	}

	// Simulate time passing by backdating the stored due date.
	stored := store.items[item.ID]
	stored.DueDate = strptr("2025-06-01")
	store.items[item.ID] = stored

	got, err := svc.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusOverdue {
		t.Errorf("status = %q, want Overdue", got.Status)
	}
	if store.items[item.ID].Status != StatusOverdue {
		t.Error("overdue correction was not written back")
	}

	// A second read finds nothing to correct.
	before := store.writeBacks
	if _, err := svc.GetByID(context.Background(), item.ID); err != nil {
		t.Fatalf("second GetByID: %v", err)
	}
	if store.writeBacks != before {
		t.Error("second read wrote back again")
	}
}

func TestCreateDerivesOverdueImmediately(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	item, err := svc.Create(context.Background(), CreateParams{
		Title:   "Chase unpaid invoice",
		DueDate: strptr("2025-06-01"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Status != StatusOverdue {
		t.Errorf("status = %q, want Overdue for a past due date", item.Status)
	}
}

func TestSweepOverdueCountsCorrections(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	overdue, _ := svc.Create(context.Background(), CreateParams{
		Title:   "Book kickoff call",
		DueDate: strptr("2025-07-01"),
	})
	onTime, _ := svc.Create(context.Background(), CreateParams{
		Title:   "Prepare quarterly review",
		DueDate: strptr("2025-09-01"),
	})

	stored := store.items[overdue.ID]
	stored.DueDate = strptr("2025-06-10")
	store.items[overdue.ID] = stored

	corrected, err := svc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if corrected != 1 {
		t.Errorf("corrected = %d, want 1", corrected)
	}
	if store.items[overdue.ID].Status != StatusOverdue {
		t.Error("past-due item was not marked Overdue")
	}
	if store.items[onTime.ID].Status != StatusOpen {
		t.Error("on-time item should stay Open")
	}
}
