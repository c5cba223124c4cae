// Package attachments stores lead and SOW files in S3-compatible object
// storage, keeping metadata rows in Postgres.
package attachments

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
)

type Module struct {
	handler *Handler
}

// NewModule wires the object store, metadata repository and handler. Returns
// nil when object storage is not configured; the router skips nil modules.
func NewModule(ctx context.Context, pool *pgxpool.Pool, cfg config.StorageConfig, log *logger.Logger) (*Module, error) {
	if !cfg.IsMinIOEnabled() {
		log.Info("object storage disabled, attachment routes not mounted")
		return nil, nil
	}

	blobs, err := NewObjectStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	svc := NewService(NewRepository(pool), blobs, log)
	return &Module{handler: NewHandler(svc)}, nil
}

func (m *Module) Name() string { return "attachments" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/attachments"))
}
