// Package performance rolls an employee's leads, opportunities and SOWs up
// into a proposal list with win-rate and deal-value KPIs.
package performance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/users"
	"sales_crm_backend/platform/apperr"
)

// Proposal status buckets every source record maps into.
const (
	StatusWon    = "Won"
	StatusOpen   = "Open"
	StatusLost   = "Lost"
	StatusOnHold = "On Hold"
)

const monthLayout = "2006-01"

type Store interface {
	LeadRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error)
	OpportunityRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error)
	SOWRecords(ctx context.Context, owner string, from, to *time.Time) ([]Record, error)
}

// Directory resolves employees. Satisfied by the users service.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Proposal struct {
	ID         uuid.UUID `json:"id"`
	TaskID     string    `json:"taskId"`
	Source     string    `json:"source"`
	ClientName string    `json:"clientName"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type KPIs struct {
	TotalProposals  int     `json:"totalProposals"`
	ProposalsWon    int     `json:"proposalsWon"`
	OpenProposals   int     `json:"openProposals"`
	LostProposals   int     `json:"lostProposals"`
	OnHoldProposals int     `json:"onHoldProposals"`
	WinRate         float64 `json:"winRate"`
	TotalDealValue  float64 `json:"totalDealValue"`
	AverageDeal     float64 `json:"averageDeal"`
}

type EmployeePerformance struct {
	UserID    uuid.UUID  `json:"userId"`
	FullName  string     `json:"fullName"`
	Month     string     `json:"month,omitempty"`
	KPIs      KPIs       `json:"kpis"`
	Proposals []Proposal `json:"proposals"`
}

type ProposalCount struct {
	UserID    uuid.UUID `json:"userId"`
	FullName  string    `json:"fullName"`
	Proposals int       `json:"proposals"`
}

type Service struct {
	store Store
	users Directory
}

func NewService(store Store, users Directory) *Service {
	return &Service{store: store, users: users}
}

// ForEmployee assembles the proposal list and KPIs for one employee,
// optionally restricted to the YYYY-MM month the records were last updated.
func (s *Service) ForEmployee(ctx context.Context, userID uuid.UUID, month string) (EmployeePerformance, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return EmployeePerformance{}, err
	}

	var from, to *time.Time
	if month != "" {
		start, err := time.Parse(monthLayout, month)
		if err != nil {
			return EmployeePerformance{}, apperr.Validation("month must be formatted YYYY-MM")
		}
		end := start.AddDate(0, 1, 0)
		from, to = &start, &end
	}

	proposals, err := s.proposalsFor(ctx, user.FullName, from, to)
	if err != nil {
		return EmployeePerformance{}, err
	}

	return EmployeePerformance{
		UserID:    user.ID,
		FullName:  user.FullName,
		Month:     month,
		KPIs:      computeKPIs(proposals),
		Proposals: proposals,
	}, nil
}

// ProposalCounts reports how many proposals each employee carries.
func (s *Service) ProposalCounts(ctx context.Context) ([]ProposalCount, error) {
	employees, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]ProposalCount, 0, len(employees))
	for _, u := range employees {
		proposals, err := s.proposalsFor(ctx, u.FullName, nil, nil)
		if err != nil {
			return nil, err
		}
		counts = append(counts, ProposalCount{
			UserID:    u.ID,
			FullName:  u.FullName,
			Proposals: len(proposals),
		})
	}
	return counts, nil
}

func (s *Service) proposalsFor(ctx context.Context, owner string, from, to *time.Time) ([]Proposal, error) {
	proposals := make([]Proposal, 0)

	leads, err := s.store.LeadRecords(ctx, owner, from, to)
	if err != nil {
		return nil, storageErr("performance.leads", err)
	}
	for _, rec := range leads {
		proposals = append(proposals, toProposal(rec, leadBucket(rec.RawStatus)))
	}

	opps, err := s.store.OpportunityRecords(ctx, owner, from, to)
	if err != nil {
		return nil, storageErr("performance.opportunities", err)
	}
	for _, rec := range opps {
		proposals = append(proposals, toProposal(rec, opportunityBucket(rec.RawStatus)))
	}

	sows, err := s.store.SOWRecords(ctx, owner, from, to)
	if err != nil {
		return nil, storageErr("performance.sows", err)
	}
	for _, rec := range sows {
		proposals = append(proposals, toProposal(rec, sowBucket(rec.RawStatus)))
	}

	return proposals, nil
}

func toProposal(rec Record, status string) Proposal {
	return Proposal{
		ID:         rec.ID,
		TaskID:     rec.TaskID,
		Source:     rec.Source,
		ClientName: rec.ClientName,
		Name:       rec.Name,
		Value:      rec.Value,
		Currency:   rec.Currency,
		Status:     status,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// Bucket mappings follow each source's terminal states: a qualified lead
// and a completed SOW count as wins the same way a Closed Won opportunity
// does.
func leadBucket(stage string) string {
	switch stage {
	case "Qualified":
		return StatusWon
	case "Unqualified":
		return StatusLost
	default:
		return StatusOpen
	}
}

func opportunityBucket(stage string) string {
	switch stage {
	case "Closed Won":
		return StatusWon
	case "Closed Lost":
		return StatusLost
	default:
		return StatusOpen
	}
}

func sowBucket(status string) string {
	switch status {
	case "Completed":
		return StatusWon
	case "On Hold":
		return StatusOnHold
	default:
		return StatusOpen
	}
}

func computeKPIs(proposals []Proposal) KPIs {
	k := KPIs{TotalProposals: len(proposals)}
	for _, p := range proposals {
		switch p.Status {
		case StatusWon:
			k.ProposalsWon++
			k.TotalDealValue += p.Value
		case StatusLost:
			k.LostProposals++
		case StatusOnHold:
			k.OnHoldProposals++
		default:
			k.OpenProposals++
		}
	}
	if k.TotalProposals > 0 {
		k.WinRate = float64(k.ProposalsWon) / float64(k.TotalProposals) * 100
	}
	if k.ProposalsWon > 0 {
		k.AverageDeal = k.TotalDealValue / float64(k.ProposalsWon)
	}
	return k
}

func storageErr(op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	e := apperr.Transient("performance storage unavailable", err)
	e.Op = op
	return e
}
