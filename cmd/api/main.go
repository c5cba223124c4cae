package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales_crm_backend/internal/actionitems"
	"sales_crm_backend/internal/activities"
	"sales_crm_backend/internal/attachments"
	"sales_crm_backend/internal/auth"
	"sales_crm_backend/internal/clients"
	"sales_crm_backend/internal/dashboard"
	"sales_crm_backend/internal/email"
	"sales_crm_backend/internal/forecasts"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/internal/http/router"
	"sales_crm_backend/internal/leads"
	"sales_crm_backend/internal/opportunities"
	"sales_crm_backend/internal/partners"
	"sales_crm_backend/internal/performance"
	"sales_crm_backend/internal/settings"
	"sales_crm_backend/internal/sows"
	"sales_crm_backend/internal/taskid"
	"sales_crm_backend/internal/users"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Shared Task ID sequencer: leads, opportunities and SOWs mint from the
	// same persisted counter.
	sequencer := taskid.New(taskid.NewRepository(pool))

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Email module subscribes to domain events (not HTTP-facing)
	email.NewModule(cfg, eventBus, log)

	leadsModule := leads.NewModule(pool, sequencer, eventBus, val)
	opportunitiesModule := opportunities.NewModule(pool, sequencer, leadsModule.Service(), eventBus, log, val)
	sowsModule := sows.NewModule(pool, sequencer, opportunitiesModule.Service(), eventBus, log, val)
	forecastsModule := forecasts.NewModule(pool, eventBus, log, val)
	actionItemsModule := actionitems.NewModule(pool, log, val)
	activitiesModule := activities.NewModule(pool, val)
	clientsModule := clients.NewModule(pool, val)
	partnersModule := partners.NewModule(pool, val)
	usersModule := users.NewModule(pool, eventBus, val)
	authModule := auth.NewModule(usersModule.Service(), cfg, log, val)
	dashboardModule := dashboard.NewModule(pool)
	settingsModule := settings.NewModule(pool, val)
	performanceModule := performance.NewModule(pool, usersModule.Service())

	modules := []apphttp.Module{
		authModule,
		usersModule,
		leadsModule,
		opportunitiesModule,
		sowsModule,
		forecastsModule,
		actionItemsModule,
		activitiesModule,
		clientsModule,
		partnersModule,
		dashboardModule,
		settingsModule,
		performanceModule,
	}

	attachmentsModule, err := attachments.NewModule(ctx, pool, cfg, log)
	if err != nil {
		log.Error("failed to initialize attachments module", "error", err)
		panic("failed to initialize attachments module: " + err.Error())
	}
	if attachmentsModule != nil {
		modules = append(modules, attachmentsModule)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
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
