package scheduler

import (
	"context"
	"time"

	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
)

const defaultSweepInterval = time.Hour

// SweepDispatcher periodically enqueues the lead and action item status
// sweep tasks so stored statuses never drift far from their derived values.
type SweepDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(cfg config.SchedulerConfig, log *logger.Logger) (*SweepDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetStatusSweepInterval()
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &SweepDispatcher{
		client:   client,
		interval: interval,
		log:      log,
	}, nil
}

func (d *SweepDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.enqueue(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.enqueue(ctx)
		}
	}
}

func (d *SweepDispatcher) enqueue(ctx context.Context) {
	payload := SweepPayload{RequestedAt: time.Now().UTC()}

	if err := d.client.EnqueueLeadStatusSweep(ctx, payload); err != nil {
		d.log.Warn("failed to enqueue lead status sweep", "error", err)
	}

	if err := d.client.EnqueueActionItemOverdueSweep(ctx, payload); err != nil {
		d.log.Warn("failed to enqueue action item overdue sweep", "error", err)
	}
}
