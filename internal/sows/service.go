package sows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

type Store interface {
	Create(ctx context.Context, params CreateParams) (SOW, error)
	GetByID(ctx context.Context, id uuid.UUID) (SOW, error)
	List(ctx context.Context, status string) ([]SOW, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (SOW, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OpportunityLinker records the SOW that a won opportunity produced. The
// link is write-once, which keeps redelivered win events from drafting a
// second SOW.
type OpportunityLinker interface {
	LinkSOW(ctx context.Context, opportunityID uuid.UUID, sowID uuid.UUID) (bool, error)
	IsLinked(ctx context.Context, opportunityID uuid.UUID) (bool, error)
}

// TaskIDSource mints the shared sequential Task IDs.
type TaskIDSource interface {
	NextTaskID(ctx context.Context) (string, error)
}

type Service struct {
	store Store
	ids   TaskIDSource
	opps  OpportunityLinker
	log   *logger.Logger
}

func NewService(store Store, ids TaskIDSource, opps OpportunityLinker, log *logger.Logger) *Service {
	return &Service{store: store, ids: ids, opps: opps, log: log}
}

// Create persists a SOW. Direct creations mint a fresh Task ID; the win
// workflow passes the opportunity's Task ID through instead.
func (s *Service) Create(ctx context.Context, params CreateParams) (SOW, error) {
	if params.Status == "" {
		params.Status = StatusDraft
	}
	if !validStatus(params.Status) {
		return SOW{}, apperr.Validation("invalid SOW status")
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}
	if params.TaskID == "" {
		taskID, err := s.ids.NextTaskID(ctx)
		if err != nil {
			return SOW{}, err
		}
		params.TaskID = taskID
	}

	sow, err := s.store.Create(ctx, params)
	if err != nil {
		return SOW{}, storageErr("sows.create", err)
	}
	return sow, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (SOW, error) {
	sow, err := s.store.GetByID(ctx, id)
	if err != nil {
		return SOW{}, storageErr("sows.get", err)
	}
	return sow, nil
}

func (s *Service) List(ctx context.Context, status string) ([]SOW, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation("invalid SOW status")
	}
	sows, err := s.store.List(ctx, status)
	if err != nil {
		return nil, storageErr("sows.list", err)
	}
	return sows, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (SOW, error) {
	if params.Status != nil && !validStatus(*params.Status) {
		return SOW{}, apperr.Validation("invalid SOW status")
	}
	sow, err := s.store.Update(ctx, id, params)
	if err != nil {
		return SOW{}, storageErr("sows.update", err)
	}
	return sow, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("sows.delete", err)
	}
	return nil
}

// DraftFromWin creates the draft SOW for a freshly won opportunity, reusing
// its Task ID and linking it back. A win event for an opportunity that
// already has a SOW is dropped.
func (s *Service) DraftFromWin(ctx context.Context, evt events.OpportunityWon) error {
	linked, err := s.opps.IsLinked(ctx, evt.OpportunityID)
	if err != nil {
		return err
	}
	if linked {
		s.log.Info("won opportunity already has a SOW", "opportunity_id", evt.OpportunityID)
		return nil
	}

	sow, err := s.store.Create(ctx, CreateParams{
		TaskID:              evt.TaskID,
		ClientName:          evt.ClientName,
		ProjectName:         fmt.Sprintf("%s SOW", evt.OpportunityName),
		Owner:               evt.SalesOwner,
		Value:               evt.DealValue,
		Currency:            evt.Currency,
		Status:              StatusDraft,
		LinkedOpportunityID: &evt.OpportunityID,
	})
	if err != nil {
		return storageErr("sows.draft_from_win", err)
	}

	tookLink, err := s.opps.LinkSOW(ctx, evt.OpportunityID, sow.ID)
	if err != nil {
		return err
	}
	if !tookLink {
		// A concurrent delivery won the link; drop the orphan draft.
		if err := s.store.Delete(ctx, sow.ID); err != nil {
			return storageErr("sows.draft_from_win", err)
		}
		s.log.Info("won opportunity already linked, duplicate draft SOW discarded",
			"opportunity_id", evt.OpportunityID, "task_id", evt.TaskID)
		return nil
	}
	s.log.Info("draft SOW created for won opportunity",
		"opportunity_id", evt.OpportunityID, "sow_id", sow.ID, "task_id", sow.TaskID)
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("sow not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("sow storage unavailable", err)
	e.Op = op
	return e
}
