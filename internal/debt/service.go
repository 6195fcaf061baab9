package debt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yzahrani/billsplit/internal/activity"
	"github.com/yzahrani/billsplit/internal/bill"
	"github.com/yzahrani/billsplit/pkg/clock"
)

// Service handles debt views, balancing and payer suggestions
type Service struct {
	repo       *Repository
	bills      *bill.Repository
	aggregator *Aggregator
	scorer     *Scorer
	activities *activity.Service
	clock      clock.Clock
}

// NewService creates a new debt service
func NewService(repo *Repository, bills *bill.Repository, aggregator *Aggregator, scorer *Scorer, activities *activity.Service, clk clock.Clock) *Service {
	return &Service{
		repo:       repo,
		bills:      bills,
		aggregator: aggregator,
		scorer:     scorer,
		activities: activities,
		clock:      clk,
	}
}

// PairwiseDebts recomputes the unsettled debt flowing each way between two
// users from their shared bills.
func (s *Service) PairwiseDebts(ctx context.Context, userA, userB int64) (PairwiseDebts, error) {
	bills, err := s.bills.ListBillsInvolvingPair(ctx, userA, userB)
	if err != nil {
		return PairwiseDebts{}, err
	}
	return s.aggregator.PairwiseDebts(bills, userA, userB), nil
}

// BalanceDebts nets mutual debt between two users and applies the resulting
// payment credits atomically. Every touched bill commits in one transaction
// or none do.
func (s *Service) BalanceDebts(ctx context.Context, userA, userB int64) (*NetSettlement, error) {
	bills, err := s.bills.ListBillsInvolvingPair(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	pairwise := s.aggregator.PairwiseDebts(bills, userA, userB)
	settlement, deltas, err := Balance(pairwise)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*bill.Bill, len(bills))
	for _, b := range bills {
		byID[b.ID] = b
	}

	now := s.clock.Now()
	touched := make(map[int64]*bill.Bill)
	for _, delta := range deltas {
		b, ok := byID[delta.BillID]
		if !ok {
			return nil, fmt.Errorf("balancer produced delta for unknown bill %d", delta.BillID)
		}
		if err := b.ApplyPayment(delta.DebtorID, delta.Amount, now); err != nil {
			return nil, fmt.Errorf("failed to apply credit to bill %d: %w", delta.BillID, err)
		}
		touched[b.ID] = b
	}

	dirty := make([]*bill.Bill, 0, len(touched))
	for _, b := range touched {
		dirty = append(dirty, b)
	}
	if err := s.bills.SaveLedgers(ctx, dirty); err != nil {
		return nil, err
	}

	for _, userID := range []int64{userA, userB} {
		s.recordActivity(ctx, userID, map[string]interface{}{
			"user_a":              settlement.UserA,
			"user_b":              settlement.UserB,
			"net_amount":          int64(settlement.NetAmount),
			"bills_fully_settled": settlement.BillsFullySettled,
		})
	}

	return settlement, nil
}

// SuggestPayers ranks the user's counterparties by likelihood of paying if
// asked now.
func (s *Service) SuggestPayers(ctx context.Context, userID int64) ([]Suggestion, error) {
	stats, err := s.repo.CounterpartyStats(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.scorer.Suggest(stats), nil
}

func (s *Service) recordActivity(ctx context.Context, userID int64, payload map[string]interface{}) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Record(ctx, userID, activity.EventDebtsBalanced, payload); err != nil {
		slog.Warn("failed to record activity",
			"event_type", string(activity.EventDebtsBalanced),
			"user_id", userID,
			"error", err,
		)
	}
}
