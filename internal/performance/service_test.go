package performance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/users"
	"sales_crm_backend/platform/apperr"
)

type fakeStore struct {
	leads         map[string][]Record
	opportunities map[string][]Record
	sows          map[string][]Record
}

func filterWindow(records []Record, from, to *time.Time) []Record {
	if from == nil || to == nil {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if !rec.UpdatedAt.Before(*from) && rec.UpdatedAt.Before(*to) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *fakeStore) LeadRecords(_ context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return filterWindow(f.leads[owner], from, to), nil
}

func (f *fakeStore) OpportunityRecords(_ context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return filterWindow(f.opportunities[owner], from, to), nil
}

func (f *fakeStore) SOWRecords(_ context.Context, owner string, from, to *time.Time) ([]Record, error) {
	return filterWindow(f.sows[owner], from, to), nil
}

type fakeDirectory struct {
	employees []users.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (users.User, error) {
	for _, u := range f.employees {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, apperr.NotFound("user not found")
}

func (f *fakeDirectory) List(_ context.Context) ([]users.User, error) {
	return f.employees, nil
}

func record(source, rawStatus string, value float64, updatedAt time.Time) Record {
	return Record{
		ID:        uuid.New(),
		TaskID:    "T-00001",
		Source:    source,
		Value:     value,
		RawStatus: rawStatus,
		UpdatedAt: updatedAt,
	}
}

func TestForEmployeeComputesKPIs(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	employee := users.User{ID: uuid.New(), FullName: "Priya Nair"}

	store := &fakeStore{
		leads: map[string][]Record{
			"Priya Nair": {
				record(SourceLead, "Qualified", 1000, now),
				record(SourceLead, "Unqualified", 500, now),
				record(SourceLead, "In Progress", 250, now),
			},
		},
		opportunities: map[string][]Record{
			"Priya Nair": {
				record(SourceOpportunity, "Closed Won", 3000, now),
				record(SourceOpportunity, "Negotiation", 800, now),
			},
		},
		sows: map[string][]Record{
			"Priya Nair": {
				record(SourceSOW, "On Hold", 400, now),
			},
		},
	}

	svc := NewService(store, &fakeDirectory{employees: []users.User{employee}})

	perf, err := svc.ForEmployee(context.Background(), employee.ID, "")
	if err != nil {
		t.Fatalf("ForEmployee: %v", err)
	}

	k := perf.KPIs
	if k.TotalProposals != 6 {
		t.Fatalf("TotalProposals = %d, want 6", k.TotalProposals)
	}
	if k.ProposalsWon != 2 || k.LostProposals != 1 || k.OnHoldProposals != 1 || k.OpenProposals != 2 {
		t.Fatalf("buckets = won %d lost %d hold %d open %d",
			k.ProposalsWon, k.LostProposals, k.OnHoldProposals, k.OpenProposals)
	}
	if k.TotalDealValue != 4000 {
		t.Fatalf("TotalDealValue = %v, want 4000", k.TotalDealValue)
	}
	if k.AverageDeal != 2000 {
		t.Fatalf("AverageDeal = %v, want 2000", k.AverageDeal)
	}
	wantRate := float64(2) / 6 * 100
	if k.WinRate != wantRate {
		t.Fatalf("WinRate = %v, want %v", k.WinRate, wantRate)
	}
}

func TestForEmployeeMonthFilter(t *testing.T) {
	employee := users.User{ID: uuid.New(), FullName: "Priya Nair"}
	june := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		leads: map[string][]Record{
			"Priya Nair": {
				record(SourceLead, "Qualified", 1000, june),
				record(SourceLead, "Qualified", 2000, may),
			},
		},
	}

	svc := NewService(store, &fakeDirectory{employees: []users.User{employee}})

	perf, err := svc.ForEmployee(context.Background(), employee.ID, "2026-06")
	if err != nil {
		t.Fatalf("ForEmployee: %v", err)
	}
	if len(perf.Proposals) != 1 {
		t.Fatalf("got %d proposals in June, want 1", len(perf.Proposals))
	}
	if perf.Proposals[0].Value != 1000 {
		t.Fatalf("wrong proposal survived the month filter: %+v", perf.Proposals[0])
	}
}

func TestForEmployeeRejectsBadMonth(t *testing.T) {
	employee := users.User{ID: uuid.New(), FullName: "Priya Nair"}
	svc := NewService(&fakeStore{}, &fakeDirectory{employees: []users.User{employee}})

	_, err := svc.ForEmployee(context.Background(), employee.ID, "June 2026")
	if err == nil {
		t.Fatal("expected validation error for malformed month")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestProposalCountsCoversAllEmployees(t *testing.T) {
	now := time.Now()
	a := users.User{ID: uuid.New(), FullName: "Priya Nair"}
	b := users.User{ID: uuid.New(), FullName: "Marco Ruiz"}

	store := &fakeStore{
		leads: map[string][]Record{
			"Priya Nair": {record(SourceLead, "New", 100, now)},
		},
		sows: map[string][]Record{
			"Priya Nair": {record(SourceSOW, "Active", 100, now)},
			"Marco Ruiz": {record(SourceSOW, "Draft", 100, now)},
		},
	}

	svc := NewService(store, &fakeDirectory{employees: []users.User{a, b}})

	counts, err := svc.ProposalCounts(context.Background())
	if err != nil {
		t.Fatalf("ProposalCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d employees, want 2", len(counts))
	}
	byName := map[string]int{}
	for _, c := range counts {
		byName[c.FullName] = c.Proposals
	}
	if byName["Priya Nair"] != 2 || byName["Marco Ruiz"] != 1 {
		t.Fatalf("counts = %v", byName)
	}
}
