package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales_crm_backend/internal/actionitems"
	"sales_crm_backend/internal/forecasts"
	"sales_crm_backend/internal/leads"
	"sales_crm_backend/internal/opportunities"
	"sales_crm_backend/internal/scheduler"
	"sales_crm_backend/internal/sows"
	"sales_crm_backend/internal/taskid"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/db"
	"sales_crm_backend/platform/events"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sequencer := taskid.New(taskid.NewRepository(pool))

	// Worker-side module wiring so sweep-triggered qualification and win
	// events still drive conversions, SOW drafts and forecast bookings
	// (no HTTP handlers required).
	leadsModule := leads.NewModule(pool, sequencer, eventBus, val)
	opportunitiesModule := opportunities.NewModule(pool, sequencer, leadsModule.Service(), eventBus, log, val)
	sows.NewModule(pool, sequencer, opportunitiesModule.Service(), eventBus, log, val)
	forecasts.NewModule(pool, eventBus, log, val)
	actionItemsModule := actionitems.NewModule(pool, log, val)

	dispatcher, err := scheduler.NewSweepDispatcher(cfg, log)
	if err != nil {
		log.Error("failed to initialize sweep dispatcher", "error", err)
		panic("failed to initialize sweep dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leadsModule.Service(), actionItemsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
