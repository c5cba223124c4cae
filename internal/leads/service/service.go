// Package service implements lead management on top of the status engine and
// the Task-ID sequencer.
package service

import (
	"context"
	"errors"
	"time"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/internal/leads/domain"
	"sales_crm_backend/internal/leads/repository"
	"sales_crm_backend/internal/leads/transport"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs from the repository.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams, entry domain.StatusChangeEntry) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams, status domain.Status, entry *domain.StatusChangeEntry) (repository.Lead, error)
	WriteBackStatus(ctx context.Context, id uuid.UUID, status domain.Status, entry domain.StatusChangeEntry) error
	ListStatusLog(ctx context.Context, leadID uuid.UUID) ([]domain.StatusChangeEntry, error)
	SetLinkedOpportunity(ctx context.Context, id uuid.UUID, opportunityID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskIDSource mints the shared sequential Task IDs.
type TaskIDSource interface {
	NextTaskID(ctx context.Context) (string, error)
}

// SystemActor attributes status write-backs that happen outside a user
// request, e.g. the periodic drift sweep.
var SystemActor = domain.Actor{UserID: uuid.Nil, UserName: "system"}

type Service struct {
	store Store
	ids   TaskIDSource
	bus   events.Bus
	now   func() time.Time
}

// New creates the lead service. The clock is injectable so date-driven
// status behavior is testable; pass time.Now in production.
func New(store Store, ids TaskIDSource, bus events.Bus, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, ids: ids, bus: bus, now: now}
}

func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actor domain.Actor) (transport.LeadResponse, error) {
	stage := domain.Stage(req.Stage)
	if req.Stage == "" {
		stage = domain.StageNew
	}
	if !stage.Valid() {
		return transport.LeadResponse{}, apperr.Validation("unknown lead stage")
	}

	taskID, err := s.ids.NextTaskID(ctx)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	now := s.now()
	status, _ := domain.ComputeStatus(stage, req.NextFollowup, "", now)
	// The creation entry always carries the "Lead created" reason, whatever
	// the computed status, and is the only entry with a nil previous status.
	entry := domain.NewStatusChangeEntry(uuid.Nil, nil, status, domain.ReasonLeadCreated, actor, now)

	params := repository.CreateLeadParams{
		TaskID:              taskID,
		ClientName:          req.ClientName,
		OpportunityName:     req.OpportunityName,
		LeadScore:           req.LeadScore,
		SalesPOC:            req.SalesPOC,
		LeadOwner:           actor.UserName,
		NextFollowup:        req.NextFollowup,
		LeadSource:          req.LeadSource,
		Region:              req.Region,
		Country:             req.Country,
		Industry:            req.Industry,
		ContactPerson:       req.ContactPerson,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        normalizePhone(req.ContactPhone),
		Solution:            req.Solution,
		EstimatedValue:      req.EstimatedValue,
		Currency:            defaultCurrency(req.Currency),
		Stage:               stage,
		Probability:         req.Probability,
		ExpectedClosureDate: req.ExpectedClosureDate,
		NextAction:          req.NextAction,
		Notes:               req.Notes,
		Comments:            req.Comments,
		LeadStatus:          status,
	}

	lead, err := s.store.Create(ctx, params, entry)
	if err != nil {
		return transport.LeadResponse{}, storageErr("leads.Create", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			TaskID:    lead.TaskID,
		})
	}

	return transport.ToLeadResponse(lead), nil
}

// GetByID returns the lead after reconciling any stale stored status: time
// alone can flip a lead to Delayed once its follow-up date passes, so the
// stored value is re-derived on every read and written back when it drifted.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, storageErr("leads.GetByID", err)
	}

	lead, _, err = s.Reconcile(ctx, lead, actor)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return transport.ToLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams, actor domain.Actor) ([]transport.LeadResponse, error) {
	leads, err := s.store.List(ctx, params)
	if err != nil {
		return nil, storageErr("leads.List", err)
	}

	for i := range leads {
		reconciled, _, err := s.Reconcile(ctx, leads[i], actor)
		if err != nil {
			return nil, err
		}
		leads[i] = reconciled
	}

	return transport.ToLeadResponses(leads), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest, actor domain.Actor) (transport.LeadResponse, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, storageErr("leads.Update", err)
	}

	stage := existing.Stage
	if req.Stage != nil {
		stage = domain.Stage(*req.Stage)
		if !stage.Valid() {
			return transport.LeadResponse{}, apperr.Validation("unknown lead stage")
		}
	}
	followup := existing.NextFollowup
	if req.NextFollowup != nil {
		followup = req.NextFollowup
	}

	now := s.now()
	status, reason := domain.ComputeStatus(stage, followup, existing.LeadStatus, now)

	// Log entries are appended only on material transitions; a no-op
	// recomputation leaves the trail untouched.
	var entry *domain.StatusChangeEntry
	if status != existing.LeadStatus {
		previous := existing.LeadStatus
		e := domain.NewStatusChangeEntry(id, &previous, status, reason, actor, now)
		entry = &e
	}

	params := repository.UpdateLeadParams{
		ClientName:          req.ClientName,
		OpportunityName:     req.OpportunityName,
		LeadScore:           req.LeadScore,
		SalesPOC:            req.SalesPOC,
		NextFollowup:        req.NextFollowup,
		LeadSource:          req.LeadSource,
		Region:              req.Region,
		Country:             req.Country,
		Industry:            req.Industry,
		ContactPerson:       req.ContactPerson,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        normalizePhone(req.ContactPhone),
		Solution:            req.Solution,
		EstimatedValue:      req.EstimatedValue,
		Currency:            req.Currency,
		Probability:         req.Probability,
		ExpectedClosureDate: req.ExpectedClosureDate,
		NextAction:          req.NextAction,
		Notes:               req.Notes,
		Comments:            req.Comments,
	}
	if req.Stage != nil {
		params.Stage = &stage
	}

	lead, err := s.store.Update(ctx, id, params, status, entry)
	if err != nil {
		return transport.LeadResponse{}, storageErr("leads.Update", err)
	}

	if entry != nil && s.bus != nil {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			PreviousStatus: string(existing.LeadStatus),
			NewStatus:      string(status),
			Reason:         string(reason),
		})
	}

	if existing.Stage != domain.StageQualified && stage == domain.StageQualified && s.bus != nil {
		s.bus.Publish(ctx, events.LeadQualified{
			BaseEvent:       events.NewBaseEvent(),
			LeadID:          lead.ID,
			TaskID:          lead.TaskID,
			ClientName:      lead.ClientName,
			OpportunityName: lead.OpportunityName,
			LeadOwner:       lead.LeadOwner,
			EstimatedValue:  lead.EstimatedValue,
			Currency:        lead.Currency,
			Region:          lead.Region,
			Country:         lead.Country,
			Industry:        lead.Industry,
			Solution:        lead.Solution,
			ActorUserID:     actor.UserID,
			ActorUserName:   actor.UserName,
		})
	}

	return transport.ToLeadResponse(lead), nil
}

// Reconcile re-derives the lead's status and writes it back, with one log
// entry, when the stored value is stale. It returns the possibly-updated
// lead and whether a write-back happened. The derivation never fails;
// only the write-back can.
func (s *Service) Reconcile(ctx context.Context, lead repository.Lead, actor domain.Actor) (repository.Lead, bool, error) {
	now := s.now()
	status, reason := domain.ComputeStatus(lead.Stage, lead.NextFollowup, lead.LeadStatus, now)
	if status == lead.LeadStatus {
		return lead, false, nil
	}

	previous := lead.LeadStatus
	entry := domain.NewStatusChangeEntry(lead.ID, &previous, status, reason, actor, now)
	if err := s.store.WriteBackStatus(ctx, lead.ID, status, entry); err != nil {
		return lead, false, storageErr("leads.Reconcile", err)
	}

	lead.LeadStatus = status
	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			PreviousStatus: string(previous),
			NewStatus:      string(status),
			Reason:         string(reason),
		})
	}
	return lead, true, nil
}

// SweepStatuses reconciles every lead against the clock. Invoked by the
// periodic background sweep; returns how many leads were corrected.
func (s *Service) SweepStatuses(ctx context.Context) (int, error) {
	leads, err := s.store.List(ctx, repository.ListParams{})
	if err != nil {
		return 0, storageErr("leads.SweepStatuses", err)
	}

	corrected := 0
	for _, lead := range leads {
		_, changed, err := s.Reconcile(ctx, lead, SystemActor)
		if err != nil {
			return corrected, err
		}
		if changed {
			corrected++
		}
	}
	return corrected, nil
}

// StatusHistory returns the lead's append-only status trail.
func (s *Service) StatusHistory(ctx context.Context, id uuid.UUID) (transport.StatusChangeLogResponse, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return transport.StatusChangeLogResponse{}, storageErr("leads.StatusHistory", err)
	}

	entries, err := s.store.ListStatusLog(ctx, id)
	if err != nil {
		return transport.StatusChangeLogResponse{}, storageErr("leads.StatusHistory", err)
	}

	return transport.StatusChangeLogResponse{LeadID: id, StatusHistory: entries}, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("leads.Delete", err)
	}
	return nil
}

// LinkOpportunity marks the lead as converted. Used by the opportunities
// module when it consumes LeadQualified.
func (s *Service) LinkOpportunity(ctx context.Context, leadID, opportunityID uuid.UUID) (bool, error) {
	linked, err := s.store.SetLinkedOpportunity(ctx, leadID, opportunityID)
	if err != nil {
		return false, storageErr("leads.LinkOpportunity", err)
	}
	return linked, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	return apperr.Transient("lead storage unavailable", err).WithOp(op)
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
