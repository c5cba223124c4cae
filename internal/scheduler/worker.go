package scheduler

import (
	"context"
	"fmt"

	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadStatusSweeper reconciles stored lead statuses with their derived values.
type LeadStatusSweeper interface {
	SweepStatuses(ctx context.Context) (int, error)
}

// ActionItemSweeper flips past-due open action items to Overdue.
type ActionItemSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  LeadStatusSweeper
	items  ActionItemSweeper
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads LeadStatusSweeper, items ActionItemSweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		leads:  leads,
		items:  items,
		log:    log,
	}

	mux.HandleFunc(TaskLeadStatusSweep, w.handleLeadStatusSweep)
	mux.HandleFunc(TaskActionItemOverdueSweep, w.handleActionItemOverdueSweep)

	return w, nil
}

func (w *Worker) handleLeadStatusSweep(ctx context.Context, task *asynq.Task) error {
	if w.leads == nil {
		return nil
	}

	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	corrected, err := w.leads.SweepStatuses(ctx)
	if err != nil {
		return err
	}

	w.log.Info("lead status sweep complete",
		"corrected", corrected,
		"requestedAt", payload.RequestedAt,
	)
	return nil
}

func (w *Worker) handleActionItemOverdueSweep(ctx context.Context, task *asynq.Task) error {
	if w.items == nil {
		return nil
	}

	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	corrected, err := w.items.SweepOverdue(ctx)
	if err != nil {
		return err
	}

	w.log.Info("action item overdue sweep complete",
		"corrected", corrected,
		"requestedAt", payload.RequestedAt,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
