package debt

import (
	"sort"
	"time"

	"github.com/yzahrani/billsplit/internal/bill"
	"github.com/yzahrani/billsplit/pkg/clock"
)

// Aggregator derives pairwise debt views from bill ledgers. It carries an
// injected clock so overdue/upcoming flags are deterministic under test.
type Aggregator struct {
	clock          clock.Clock
	upcomingWindow time.Duration
}

// NewAggregator creates an aggregator flagging debts due within
// upcomingWindowDays as upcoming.
func NewAggregator(clk clock.Clock, upcomingWindowDays int) *Aggregator {
	return &Aggregator{
		clock:          clk,
		upcomingWindow: time.Duration(upcomingWindowDays) * 24 * time.Hour,
	}
}

// PairwiseDebts scans the given bills and collects every unsettled amount
// flowing between userA and userB, in both directions. A bill contributes a
// debt when one of the pair is its payer and the other still has an unpaid,
// non-excluded leg; fully paid legs are not debts. Both lists come back
// sorted by remaining amount descending; the ordering is explicit, not an
// artifact of storage order.
func (a *Aggregator) PairwiseDebts(bills []*bill.Bill, userA, userB int64) PairwiseDebts {
	now := a.clock.Now()
	result := PairwiseDebts{UserA: userA, UserB: userB}

	for _, b := range bills {
		var debtorID int64
		switch b.PayerID {
		case userA:
			debtorID = userB
		case userB:
			debtorID = userA
		default:
			continue
		}

		p := b.ParticipantFor(debtorID)
		if p == nil || p.Excluded {
			continue
		}
		remaining := p.Remaining()
		if !remaining.IsPositive() {
			continue
		}

		d := DirectionalDebt{
			BillID:     b.ID,
			CreditorID: b.PayerID,
			DebtorID:   debtorID,
			Remaining:  remaining,
			Deadline:   b.PaymentDeadline,
			Overdue:    b.PaymentDeadline.Before(now),
			Upcoming:   a.isUpcoming(b.PaymentDeadline, now),
		}

		if debtorID == userA {
			result.AOwesB = append(result.AOwesB, d)
		} else {
			result.BOwesA = append(result.BOwesA, d)
		}
	}

	SortByRemaining(result.AOwesB)
	SortByRemaining(result.BOwesA)
	return result
}

// isUpcoming reports whether a deadline is in the future but inside the
// upcoming window.
func (a *Aggregator) isUpcoming(deadline, now time.Time) bool {
	if !now.Before(deadline) {
		return false
	}
	return deadline.Sub(now) <= a.upcomingWindow
}

// SortByRemaining orders debts by remaining amount descending, so "who owes
// most" views read top-down. Ties break on bill ID for reproducibility.
func SortByRemaining(debts []DirectionalDebt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if debts[i].Remaining != debts[j].Remaining {
			return debts[i].Remaining > debts[j].Remaining
		}
		return debts[i].BillID < debts[j].BillID
	})
}

// SortByOverdue orders debts for overdue views: overdue debts first, longest
// overdue at the top, then the rest by nearest deadline.
func SortByOverdue(debts []DirectionalDebt) {
	sort.SliceStable(debts, func(i, j int) bool {
		if debts[i].Overdue != debts[j].Overdue {
			return debts[i].Overdue
		}
		return debts[i].Deadline.Before(debts[j].Deadline)
	})
}
