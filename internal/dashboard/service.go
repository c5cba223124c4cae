package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sales_crm_backend/platform/apperr"
)

// Counts is the operational rollup the landing page renders.
type Counts struct {
	Leads           int64            `json:"leads"`
	Opportunities   int64            `json:"opportunities"`
	Clients         int64            `json:"clients"`
	Partners        int64            `json:"partners"`
	SOWs            int64            `json:"sows"`
	OpenActionItems int64            `json:"openActionItems"`
	PipelineValue   float64          `json:"pipelineValue"`
	ByStage         map[string]int64 `json:"opportunitiesByStage"`
	BySource        map[string]int64 `json:"leadsBySource"`
}

type Metrics interface {
	CountLeads(ctx context.Context) (int64, error)
	CountOpportunities(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
	CountPartners(ctx context.Context) (int64, error)
	CountSOWs(ctx context.Context) (int64, error)
	CountOpenActionItems(ctx context.Context) (int64, error)
	OpportunitiesByStage(ctx context.Context) (map[string]int64, error)
	LeadsBySource(ctx context.Context) (map[string]int64, error)
	PipelineValue(ctx context.Context) (float64, error)
}

type Service struct {
	metrics Metrics
}

func NewService(metrics Metrics) *Service {
	return &Service{metrics: metrics}
}

// Overview gathers all counts concurrently; one failing query fails the
// whole rollup rather than serving partial numbers.
func (s *Service) Overview(ctx context.Context) (Counts, error) {
	var counts Counts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		counts.Leads, err = s.metrics.CountLeads(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.Opportunities, err = s.metrics.CountOpportunities(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.Clients, err = s.metrics.CountClients(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.Partners, err = s.metrics.CountPartners(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.SOWs, err = s.metrics.CountSOWs(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.OpenActionItems, err = s.metrics.CountOpenActionItems(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.PipelineValue, err = s.metrics.PipelineValue(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.ByStage, err = s.metrics.OpportunitiesByStage(ctx)
		return
	})
	g.Go(func() (err error) {
		counts.BySource, err = s.metrics.LeadsBySource(ctx)
		return
	})

	if err := g.Wait(); err != nil {
		return Counts{}, apperr.Transient("dashboard rollup unavailable", err)
	}
	return counts, nil
}
