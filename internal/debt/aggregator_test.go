package debt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzahrani/billsplit/internal/bill"
	"github.com/yzahrani/billsplit/internal/money"
	"github.com/yzahrani/billsplit/pkg/clock"
)

var aggNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	return NewAggregator(clock.NewFixed(aggNow), 7)
}

// twoPersonBill builds a bill paid by payerID where debtorID owes `owed` and
// has paid `paid`.
func twoPersonBill(id, payerID, debtorID int64, owed, paid money.Amount, deadline time.Time) *bill.Bill {
	return &bill.Bill{
		ID:              id,
		PayerID:         payerID,
		TotalAmount:     owed * 2,
		PaymentDeadline: deadline,
		Participants: []*bill.Participant{
			{UserID: payerID, Owed: owed, Paid: owed},
			{UserID: debtorID, Owed: owed, Paid: paid},
		},
	}
}

func TestPairwiseDebts(t *testing.T) {
	agg := newTestAggregator()
	future := aggNow.Add(30 * 24 * time.Hour)

	t.Run("routes debts by payer direction", func(t *testing.T) {
		bills := []*bill.Bill{
			twoPersonBill(1, 1, 2, 5000, 0, future), // B owes A 5000
			twoPersonBill(2, 2, 1, 2000, 0, future), // A owes B 2000
		}

		result := agg.PairwiseDebts(bills, 1, 2)

		require.Len(t, result.AOwesB, 1)
		require.Len(t, result.BOwesA, 1)
		assert.Equal(t, money.Amount(2000), result.AOwesB[0].Remaining)
		assert.Equal(t, int64(2), result.AOwesB[0].CreditorID)
		assert.Equal(t, money.Amount(5000), result.BOwesA[0].Remaining)
	})

	t.Run("partial payments reduce remaining", func(t *testing.T) {
		bills := []*bill.Bill{
			twoPersonBill(1, 1, 2, 5000, 1500, future),
		}

		result := agg.PairwiseDebts(bills, 1, 2)
		require.Len(t, result.BOwesA, 1)
		assert.Equal(t, money.Amount(3500), result.BOwesA[0].Remaining)
	})

	t.Run("fully paid legs are not debts", func(t *testing.T) {
		bills := []*bill.Bill{
			twoPersonBill(1, 1, 2, 5000, 5000, future),
			twoPersonBill(2, 1, 2, 3000, 4000, future), // overpaid
		}

		result := agg.PairwiseDebts(bills, 1, 2)
		assert.Empty(t, result.BOwesA)
		assert.Empty(t, result.AOwesB)
	})

	t.Run("bills involving neither direction are skipped", func(t *testing.T) {
		bills := []*bill.Bill{
			twoPersonBill(1, 7, 8, 5000, 0, future), // unrelated pair
		}

		result := agg.PairwiseDebts(bills, 1, 2)
		assert.Empty(t, result.AOwesB)
		assert.Empty(t, result.BOwesA)
	})

	t.Run("excluded participants contribute nothing", func(t *testing.T) {
		b := twoPersonBill(1, 1, 2, 5000, 0, future)
		require.NoError(t, b.OptOut(2))

		result := agg.PairwiseDebts([]*bill.Bill{b}, 1, 2)
		assert.Empty(t, result.BOwesA)
	})

	t.Run("sorted by remaining descending", func(t *testing.T) {
		bills := []*bill.Bill{
			twoPersonBill(1, 1, 2, 1000, 0, future),
			twoPersonBill(2, 1, 2, 9000, 0, future),
			twoPersonBill(3, 1, 2, 4000, 0, future),
		}

		result := agg.PairwiseDebts(bills, 1, 2)
		require.Len(t, result.BOwesA, 3)
		assert.Equal(t, money.Amount(9000), result.BOwesA[0].Remaining)
		assert.Equal(t, money.Amount(4000), result.BOwesA[1].Remaining)
		assert.Equal(t, money.Amount(1000), result.BOwesA[2].Remaining)
	})
}

func TestDeadlineFlags(t *testing.T) {
	agg := newTestAggregator()

	tests := []struct {
		name         string
		deadline     time.Time
		wantOverdue  bool
		wantUpcoming bool
	}{
		{"past deadline is overdue", aggNow.Add(-48 * time.Hour), true, false},
		{"due in three days is upcoming", aggNow.Add(3 * 24 * time.Hour), false, true},
		{"due in exactly seven days is upcoming", aggNow.Add(7 * 24 * time.Hour), false, true},
		{"due in eight days is neither", aggNow.Add(8 * 24 * time.Hour), false, false},
		{"deadline right now is overdue-adjacent, not upcoming", aggNow, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bills := []*bill.Bill{twoPersonBill(1, 1, 2, 1000, 0, tt.deadline)}
			result := agg.PairwiseDebts(bills, 1, 2)
			require.Len(t, result.BOwesA, 1)
			assert.Equal(t, tt.wantOverdue, result.BOwesA[0].Overdue, "overdue")
			assert.Equal(t, tt.wantUpcoming, result.BOwesA[0].Upcoming, "upcoming")
		})
	}
}

func TestSortByOverdue(t *testing.T) {
	debts := []DirectionalDebt{
		{BillID: 1, Deadline: aggNow.Add(24 * time.Hour)},
		{BillID: 2, Deadline: aggNow.Add(-72 * time.Hour), Overdue: true},
		{BillID: 3, Deadline: aggNow.Add(-24 * time.Hour), Overdue: true},
	}

	SortByOverdue(debts)

	assert.Equal(t, int64(2), debts[0].BillID, "longest overdue first")
	assert.Equal(t, int64(3), debts[1].BillID)
	assert.Equal(t, int64(1), debts[2].BillID)
}
