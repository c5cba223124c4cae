package dashboard

import (
	"context"
	"errors"
	"testing"

	"sales_crm_backend/platform/apperr"
)

type fakeMetrics struct {
	failLeads bool
}

func (f *fakeMetrics) CountLeads(context.Context) (int64, error) {
	if f.failLeads {
		return 0, errors.New("connection refused")
	}
	return 12, nil
}
func (f *fakeMetrics) CountOpportunities(context.Context) (int64, error) { return 7, nil }
func (f *fakeMetrics) CountClients(context.Context) (int64, error)       { return 5, nil }
func (f *fakeMetrics) CountPartners(context.Context) (int64, error)      { return 3, nil }
func (f *fakeMetrics) CountSOWs(context.Context) (int64, error)          { return 2, nil }
func (f *fakeMetrics) CountOpenActionItems(context.Context) (int64, error) {
	return 9, nil
}
func (f *fakeMetrics) OpportunitiesByStage(context.Context) (map[string]int64, error) {
	return map[string]int64{"Prospecting": 4, "Closed Won": 3}, nil
}
func (f *fakeMetrics) LeadsBySource(context.Context) (map[string]int64, error) {
	return map[string]int64{"Referral": 8, "Unknown": 4}, nil
}
func (f *fakeMetrics) PipelineValue(context.Context) (float64, error) { return 250000, nil }

func TestOverviewGathersAllCounts(t *testing.T) {
	svc := NewService(&fakeMetrics{})

	counts, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if counts.Leads != 12 || counts.Opportunities != 7 || counts.SOWs != 2 {
		t.Errorf("counts = %+v, want leads 12, opportunities 7, sows 2", counts)
	}
	if counts.PipelineValue != 250000 {
		t.Errorf("pipeline value = %v, want 250000", counts.PipelineValue)
	}
	if counts.ByStage["Prospecting"] != 4 {
		t.Errorf("by stage = %v, want Prospecting 4", counts.ByStage)
	}
	if counts.BySource["Referral"] != 8 {
		t.Errorf("by source = %v, want Referral 8", counts.BySource)
	}
}

func TestOverviewFailsClosedOnAnyError(t *testing.T) {
	svc := NewService(&fakeMetrics{failLeads: true})

	_, err := svc.Overview(context.Background())
	if err == nil {
		t.Fatal("expected error when one count fails")
	}
	if !apperr.IsTransient(err) {
		t.Errorf("error kind = %v, want transient", apperr.GetKind(err))
	}
}
