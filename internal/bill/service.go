package bill

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yzahrani/billsplit/internal/activity"
	"github.com/yzahrani/billsplit/internal/bill/split"
	"github.com/yzahrani/billsplit/internal/money"
	"github.com/yzahrani/billsplit/pkg/clock"
)

// Common errors
var ErrBillNotFound = errors.New("bill not found")

// Service handles bill business logic
type Service struct {
	repo         *Repository
	splitFactory *split.Factory
	activities   *activity.Service
	clock        clock.Clock
}

// NewService creates a new bill service
func NewService(repo *Repository, splitFactory *split.Factory, activities *activity.Service, clk clock.Clock) *Service {
	return &Service{
		repo:         repo,
		splitFactory: splitFactory,
		activities:   activities,
		clock:        clk,
	}
}

// CreateBill calculates the split for a new bill and persists it with its
// full ledger. The payer's own leg is recorded as already paid.
func (s *Service) CreateBill(ctx context.Context, payerID int64, req *CreateBillRequest) (*Bill, error) {
	strategy, err := s.splitFactory.CreateFromString(req.SplitMethod)
	if err != nil {
		return nil, err
	}

	total := money.Amount(req.TotalAmount)
	participants := make([]split.Input, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, split.Input{
			UserID: p.UserID,
			Owed:   amountPtr(p.Owed),
		})
	}

	items := make([]*Item, 0, len(req.Items))
	splitItems := make([]split.Item, 0, len(req.Items))
	for _, it := range req.Items {
		item := &Item{
			Name:        it.Name,
			UnitAmount:  money.Amount(it.UnitAmount),
			Quantity:    it.Quantity,
			AllocatedTo: it.AllocatedTo,
		}
		items = append(items, item)
		splitItems = append(splitItems, split.Item{
			Name:        item.Name,
			Amount:      item.Total(),
			AllocatedTo: item.AllocatedTo,
		})
	}

	shares, err := strategy.Calculate(total, payerID, participants, splitItems)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &Bill{
		Description:     req.Description,
		TotalAmount:     total,
		SplitMethod:     strategy.Method(),
		PayerID:         payerID,
		PaymentDeadline: req.PaymentDeadline,
		Items:           items,
	}
	for _, share := range shares {
		p := &Participant{
			UserID: share.UserID,
			Owed:   share.Owed,
			Paid:   share.Paid,
		}
		if p.Paid.IsPositive() {
			t := now
			p.PaidAt = &t
		}
		b.Participants = append(b.Participants, p)
	}
	b.refreshSettlement()

	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	for _, p := range b.Participants {
		s.recordActivity(ctx, p.UserID, activity.EventBillCreated, map[string]interface{}{
			"bill_id":     b.ID,
			"description": b.Description,
			"payer_id":    b.PayerID,
			"owed":        int64(p.Owed),
		})
	}

	return b, nil
}

// GetBill retrieves a bill with its ledger
func (s *Service) GetBill(ctx context.Context, id int64) (*Bill, error) {
	b, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}
	return b, nil
}

// ListBillsInvolving retrieves all bills where the user is payer or participant
func (s *Service) ListBillsInvolving(ctx context.Context, userID int64) ([]*Bill, error) {
	return s.repo.ListBillsInvolving(ctx, userID)
}

// RecordPayment credits a payment against a participant's leg of a bill
func (s *Service) RecordPayment(ctx context.Context, billID, userID int64, amount money.Amount) (*Bill, error) {
	b, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := b.ApplyPayment(userID, amount, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.SaveLedger(ctx, b); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, b.PayerID, activity.EventPaymentRecorded, map[string]interface{}{
		"bill_id": b.ID,
		"user_id": userID,
		"amount":  int64(amount),
	})
	if b.IsSettled {
		for _, p := range b.Participants {
			s.recordActivity(ctx, p.UserID, activity.EventBillSettled, map[string]interface{}{
				"bill_id":     b.ID,
				"description": b.Description,
			})
		}
	}

	return b, nil
}

// OptOut removes a participant's obligation from a bill while keeping their
// row for the audit trail
func (s *Service) OptOut(ctx context.Context, billID, userID int64) (*Bill, error) {
	b, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := b.OptOut(userID); err != nil {
		return nil, err
	}

	if err := s.repo.SaveLedger(ctx, b); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, b.PayerID, activity.EventParticipantOptedOut, map[string]interface{}{
		"bill_id": b.ID,
		"user_id": userID,
	})

	return b, nil
}

// recordActivity writes a feed event after the transactional work has
// committed. Failures here must not roll back the ledger, so they are
// logged and swallowed.
func (s *Service) recordActivity(ctx context.Context, userID int64, eventType activity.EventType, payload map[string]interface{}) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Record(ctx, userID, eventType, payload); err != nil {
		slog.Warn("failed to record activity",
			"event_type", string(eventType),
			"user_id", userID,
			"error", err,
		)
	}
}
