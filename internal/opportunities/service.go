package opportunities

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, params CreateParams) (Opportunity, error)
	GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error)
	List(ctx context.Context, stage string) ([]Opportunity, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Opportunity, error)
	SetLinkedSOW(ctx context.Context, id uuid.UUID, sowID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeadLinker lets the conversion workflow record the opportunity back on the
// source lead without importing the leads package wholesale.
type LeadLinker interface {
	LinkOpportunity(ctx context.Context, leadID uuid.UUID, opportunityID uuid.UUID) (bool, error)
}

// TaskIDSource mints the shared sequential Task IDs.
type TaskIDSource interface {
	NextTaskID(ctx context.Context) (string, error)
}

type Service struct {
	store Store
	ids   TaskIDSource
	leads LeadLinker
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func NewService(store Store, ids TaskIDSource, leads LeadLinker, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, ids: ids, leads: leads, bus: bus, log: log, now: time.Now}
}

// Create handles direct (non-conversion) opportunity creation and mints a
// fresh Task ID from the sequence leads draw from.
func (s *Service) Create(ctx context.Context, params CreateParams) (Opportunity, error) {
	if params.Stage == "" {
		params.Stage = StageProspecting
	}
	if !validStage(params.Stage) {
		return Opportunity{}, apperr.Validation("invalid opportunity stage")
	}
	if params.Currency == "" {
		params.Currency = "USD"
	}

	taskID, err := s.ids.NextTaskID(ctx)
	if err != nil {
		return Opportunity{}, err
	}
	params.TaskID = taskID

	opp, err := s.store.Create(ctx, params)
	if err != nil {
		return Opportunity{}, storageErr("opportunities.create", err)
	}
	return opp, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error) {
	opp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Opportunity{}, storageErr("opportunities.get", err)
	}
	return opp, nil
}

func (s *Service) List(ctx context.Context, stage string) ([]Opportunity, error) {
	if stage != "" && !validStage(stage) {
		return nil, apperr.Validation("invalid opportunity stage")
	}
	opps, err := s.store.List(ctx, stage)
	if err != nil {
		return nil, storageErr("opportunities.list", err)
	}
	return opps, nil
}

// Update applies the patch and, when the stage lands on Closed Won for the
// first time, announces the win so downstream handlers can draft the SOW and
// forecast entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Opportunity, error) {
	if params.Stage != nil && !validStage(*params.Stage) {
		return Opportunity{}, apperr.Validation("invalid opportunity stage")
	}
	if params.ProbabilityPercent != nil && (*params.ProbabilityPercent < 0 || *params.ProbabilityPercent > 100) {
		return Opportunity{}, apperr.Validation("probability must be between 0 and 100")
	}

	previous, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Opportunity{}, storageErr("opportunities.update", err)
	}

	opp, err := s.store.Update(ctx, id, params)
	if err != nil {
		return Opportunity{}, storageErr("opportunities.update", err)
	}

	if opp.Stage == StageClosedWon && previous.Stage != StageClosedWon {
		s.bus.Publish(ctx, events.OpportunityWon{
			BaseEvent:       events.NewBaseEvent(),
			OpportunityID:   opp.ID,
			TaskID:          opp.TaskID,
			ClientName:      opp.ClientName,
			OpportunityName: opp.OpportunityName,
			SalesOwner:      opp.SalesOwner,
			DealValue:       opp.DealValue,
			Currency:        opp.Currency,
		})
	}
	return opp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("opportunities.delete", err)
	}
	return nil
}

// IsLinked reports whether the opportunity already spawned a SOW.
func (s *Service) IsLinked(ctx context.Context, id uuid.UUID) (bool, error) {
	opp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, storageErr("opportunities.is_linked", err)
	}
	return opp.LinkedSOWID != nil, nil
}

// LinkSOW is called from the won-opportunity workflow after the SOW row
// exists. The write-once update reports whether this call took the link,
// so a second delivery of the same event can unwind its duplicate.
func (s *Service) LinkSOW(ctx context.Context, id uuid.UUID, sowID uuid.UUID) (bool, error) {
	linked, err := s.store.SetLinkedSOW(ctx, id, sowID)
	if err != nil {
		return false, storageErr("opportunities.link_sow", err)
	}
	return linked, nil
}

// ConvertFromLead creates the opportunity a qualified lead turns into. The
// lead's Task ID carries over so both records trace to one sequence number.
func (s *Service) ConvertFromLead(ctx context.Context, evt events.LeadQualified) error {
	opp, err := s.store.Create(ctx, CreateParams{
		TaskID:             evt.TaskID,
		ClientName:         evt.ClientName,
		OpportunityName:    evt.OpportunityName,
		SalesOwner:         evt.LeadOwner,
		DealValue:          evt.EstimatedValue,
		ProbabilityPercent: 10,
		Industry:           evt.Industry,
		Region:             evt.Region,
		Country:            evt.Country,
		Solution:           evt.Solution,
		Currency:           evt.Currency,
		Stage:              StageProspecting,
		LinkedLeadID:       &evt.LeadID,
	})
	if err != nil {
		return storageErr("opportunities.convert", err)
	}

	linked, err := s.leads.LinkOpportunity(ctx, evt.LeadID, opp.ID)
	if err != nil {
		return err
	}
	if !linked {
		// The lead was converted by an earlier delivery; drop the duplicate.
		if err := s.store.Delete(ctx, opp.ID); err != nil {
			return storageErr("opportunities.convert", err)
		}
		s.log.Info("lead already converted, duplicate opportunity discarded",
			"lead_id", evt.LeadID, "task_id", evt.TaskID)
		return nil
	}
	s.log.Info("lead converted to opportunity",
		"lead_id", evt.LeadID, "opportunity_id", opp.ID, "task_id", opp.TaskID)
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("opportunity not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("opportunity storage unavailable", err)
	e.Op = op
	return e
}
