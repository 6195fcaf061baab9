package debt

import (
	"fmt"

	"github.com/yzahrani/billsplit/internal/money"
)

// CannotBalanceError is returned when mutual netting is meaningless: debt must
// flow in both directions for there to be anything to cancel. It carries the
// computed totals so the caller can explain why.
type CannotBalanceError struct {
	TotalAOwesB money.Amount
	TotalBOwesA money.Amount
}

func (e *CannotBalanceError) Error() string {
	return fmt.Sprintf("cannot balance: debts must flow both ways (a owes b %s, b owes a %s)",
		e.TotalAOwesB, e.TotalBOwesA)
}

// Balance nets the mutual debt between two users. The smaller side is fully
// cancelled; the larger side is reduced by exactly the smaller side's total,
// consuming its bills smallest-remaining first so that small debts are fully
// cleared and the largest bill absorbs the single partial reduction. At most
// one bill ends up partially paid.
//
// The returned deltas are not applied here; the caller must apply all of them
// together or none. Money conservation: each side's deltas sum to exactly
// min(totalA, totalB), so after applying, the smaller side is zero and the
// larger side holds exactly the net residual.
func Balance(p PairwiseDebts) (*NetSettlement, []LedgerDelta, error) {
	totalA := sumRemaining(p.AOwesB)
	totalB := sumRemaining(p.BOwesA)

	if !totalA.IsPositive() || !totalB.IsPositive() {
		return nil, nil, &CannotBalanceError{TotalAOwesB: totalA, TotalBOwesA: totalB}
	}

	settlement := &NetSettlement{
		UserA:       p.UserA,
		UserB:       p.UserB,
		TotalAOwesB: totalA,
		TotalBOwesA: totalB,
		NetAmount:   totalA.Sub(totalB),
		CanBalance:  true,
	}

	// The side with less total debt is cancelled outright; the other side
	// absorbs that total as a reduction budget.
	fullSide, reducedSide := p.BOwesA, p.AOwesB
	budget := totalB
	if totalB > totalA {
		fullSide, reducedSide = p.AOwesB, p.BOwesA
		budget = totalA
	}

	deltas := make([]LedgerDelta, 0, len(fullSide)+len(reducedSide))
	for _, d := range fullSide {
		deltas = append(deltas, LedgerDelta{BillID: d.BillID, DebtorID: d.DebtorID, Amount: d.Remaining})
		settlement.BillsFullySettled = append(settlement.BillsFullySettled, d.BillID)
	}

	// Lists arrive sorted by remaining descending, so walking from the tail
	// clears the smallest debts first; the head bill is reduced last and is
	// the one left partially paid when the budget runs out.
	for i := len(reducedSide) - 1; i >= 0 && budget.IsPositive(); i-- {
		d := reducedSide[i]
		pay := money.Min(d.Remaining, budget)
		deltas = append(deltas, LedgerDelta{BillID: d.BillID, DebtorID: d.DebtorID, Amount: pay})
		if pay == d.Remaining {
			settlement.BillsFullySettled = append(settlement.BillsFullySettled, d.BillID)
		}
		budget = budget.Sub(pay)
	}

	return settlement, deltas, nil
}

func sumRemaining(debts []DirectionalDebt) money.Amount {
	var sum money.Amount
	for _, d := range debts {
		sum = sum.Add(d.Remaining)
	}
	return sum
}
