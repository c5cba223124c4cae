package actionitems

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

type Store interface {
	Create(ctx context.Context, params CreateParams) (ActionItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (ActionItem, error)
	List(ctx context.Context, params ListParams) ([]ActionItem, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ActionItem, error)
	WriteBackStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewService(store Store, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, log: log, now: now}
}

// DeriveStatus returns the status an item should hold given its due date.
// Completed is terminal. A due date in the past marks the item Overdue; an
// Overdue item whose due date moved into the future reverts to Open. A
// malformed or absent due date leaves the stored status alone.
func DeriveStatus(stored string, dueDate *string, now time.Time) string {
	if stored == StatusCompleted {
		return stored
	}
	due, ok := parseDueDate(dueDate)
	if !ok {
		return stored
	}
	today := truncateToDayUTC(now)
	if due.Before(today) {
		return StatusOverdue
	}
	if stored == StatusOverdue {
		return StatusOpen
	}
	return stored
}

func parseDueDate(raw *string) (time.Time, bool) {
	if raw == nil || *raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return truncateToDayUTC(t), true
		}
	}
	return time.Time{}, false
}

func truncateToDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (ActionItem, error) {
	if params.Status == "" {
		params.Status = StatusOpen
	}
	if !validStatus(params.Status) {
		return ActionItem{}, apperr.Validation("invalid action item status")
	}
	params.Status = DeriveStatus(params.Status, params.DueDate, s.now())

	item, err := s.store.Create(ctx, params)
	if err != nil {
		return ActionItem{}, storageErr("actionitems.create", err)
	}
	return item, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (ActionItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ActionItem{}, storageErr("actionitems.get", err)
	}
	return s.reconcile(ctx, item)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]ActionItem, error) {
	if params.Status != "" && !validStatus(params.Status) {
		return nil, apperr.Validation("invalid action item status")
	}
	items, err := s.store.List(ctx, params)
	if err != nil {
		return nil, storageErr("actionitems.list", err)
	}
	for i, item := range items {
		reconciled, err := s.reconcile(ctx, item)
		if err != nil {
			return nil, err
		}
		items[i] = reconciled
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ActionItem, error) {
	if params.Status != nil && !validStatus(*params.Status) {
		return ActionItem{}, apperr.Validation("invalid action item status")
	}

	item, err := s.store.Update(ctx, id, params)
	if err != nil {
		return ActionItem{}, storageErr("actionitems.update", err)
	}
	return s.reconcile(ctx, item)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storageErr("actionitems.delete", err)
	}
	return nil
}

// reconcile corrects drift between the stored status and what the due date
// implies, writing the correction back.
func (s *Service) reconcile(ctx context.Context, item ActionItem) (ActionItem, error) {
	derived := DeriveStatus(item.Status, item.DueDate, s.now())
	if derived == item.Status {
		return item, nil
	}
	if err := s.store.WriteBackStatus(ctx, item.ID, derived); err != nil {
		return ActionItem{}, storageErr("actionitems.reconcile", err)
	}
	item.Status = derived
	return item, nil
}

// SweepOverdue reconciles every item's stored status, returning how many
// were corrected. The background worker runs this periodically.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	items, err := s.store.List(ctx, ListParams{})
	if err != nil {
		return 0, storageErr("actionitems.sweep", err)
	}
	corrected := 0
	for _, item := range items {
		derived := DeriveStatus(item.Status, item.DueDate, s.now())
		if derived == item.Status {
			continue
		}
		if err := s.store.WriteBackStatus(ctx, item.ID, derived); err != nil {
			return corrected, storageErr("actionitems.sweep", err)
		}
		s.log.Info("action item status corrected",
			"action_item_id", item.ID, "previous", item.Status, "status", derived)
		corrected++
	}
	return corrected, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("action item not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("action item storage unavailable", err)
	e.Op = op
	return e
}
