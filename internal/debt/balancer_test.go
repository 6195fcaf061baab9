package debt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzahrani/billsplit/internal/money"
)

func debts(userA, userB int64, aOwesB, bOwesA []DirectionalDebt) PairwiseDebts {
	SortByRemaining(aOwesB)
	SortByRemaining(bOwesA)
	return PairwiseDebts{UserA: userA, UserB: userB, AOwesB: aOwesB, BOwesA: bOwesA}
}

func dd(billID, debtorID, creditorID int64, remaining money.Amount) DirectionalDebt {
	return DirectionalDebt{
		BillID:     billID,
		DebtorID:   debtorID,
		CreditorID: creditorID,
		Remaining:  remaining,
		Deadline:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func deltaSumForSide(deltas []LedgerDelta, debtorID int64) money.Amount {
	var sum money.Amount
	for _, d := range deltas {
		if d.DebtorID == debtorID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

func TestBalanceMutualDebt(t *testing.T) {
	// A owes B 30000 across two bills (20000 and 10000); B owes A 15000.
	p := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 20000), dd(11, 1, 2, 10000)},
		[]DirectionalDebt{dd(20, 2, 1, 15000)},
	)

	settlement, deltas, err := Balance(p)
	require.NoError(t, err)

	assert.True(t, settlement.CanBalance)
	assert.Equal(t, money.Amount(30000), settlement.TotalAOwesB)
	assert.Equal(t, money.Amount(15000), settlement.TotalBOwesA)
	assert.Equal(t, money.Amount(15000), settlement.NetAmount, "A still owes B the net")

	// B's whole side cancels.
	assert.Equal(t, money.Amount(15000), deltaSumForSide(deltas, 2))

	// A's side is reduced by exactly B's total: the smaller 10000 bill is
	// cleared in full first, the larger bill absorbs the partial 5000.
	assert.Equal(t, money.Amount(15000), deltaSumForSide(deltas, 1))
	assert.Contains(t, settlement.BillsFullySettled, int64(20))
	assert.Contains(t, settlement.BillsFullySettled, int64(11))
	assert.NotContains(t, settlement.BillsFullySettled, int64(10))

	partial := deltaFor(t, deltas, 10)
	assert.Equal(t, money.Amount(5000), partial.Amount)
}

func TestBalanceExactOffset(t *testing.T) {
	// Equal totals: every bill on both sides is fully settled.
	p := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 7000), dd(11, 1, 2, 3000)},
		[]DirectionalDebt{dd(20, 2, 1, 6000), dd(21, 2, 1, 4000)},
	)

	settlement, deltas, err := Balance(p)
	require.NoError(t, err)

	assert.Equal(t, money.Zero, settlement.NetAmount)
	assert.ElementsMatch(t, []int64{10, 11, 20, 21}, settlement.BillsFullySettled)
	assert.Equal(t, money.Amount(10000), deltaSumForSide(deltas, 1))
	assert.Equal(t, money.Amount(10000), deltaSumForSide(deltas, 2))
}

func TestBalanceSymmetric(t *testing.T) {
	// B carries the larger side; roles swap.
	p := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 5000)},
		[]DirectionalDebt{dd(20, 2, 1, 8000), dd(21, 2, 1, 4000)},
	)

	settlement, deltas, err := Balance(p)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(-7000), settlement.NetAmount, "negative net: B still owes A")
	assert.Contains(t, settlement.BillsFullySettled, int64(10), "A's whole side cancels")
	assert.Contains(t, settlement.BillsFullySettled, int64(21), "B's smaller bill cleared first")
	assert.Equal(t, money.Amount(1000), deltaFor(t, deltas, 20).Amount)
}

func TestBalanceSmallestClearedFirst(t *testing.T) {
	// Budget 6000 against bills of 5000, 3000, 2000 (sorted descending).
	// The two smallest are cleared in full; the largest absorbs the partial.
	p := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 5000), dd(11, 1, 2, 3000), dd(12, 1, 2, 2000)},
		[]DirectionalDebt{dd(20, 2, 1, 6000)},
	)

	settlement, deltas, err := Balance(p)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{20, 11, 12}, settlement.BillsFullySettled)
	assert.Equal(t, money.Amount(1000), deltaFor(t, deltas, 10).Amount,
		"largest bill is reduced last and holds the partial")
}

func TestBalanceBudgetEndsOnExactBoundary(t *testing.T) {
	// Budget 2000 exactly clears the smallest bill; no partial at all.
	p := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 5000), dd(11, 1, 2, 2000)},
		[]DirectionalDebt{dd(20, 2, 1, 2000)},
	)

	settlement, deltas, err := Balance(p)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{20, 11}, settlement.BillsFullySettled)
	for _, d := range deltas {
		assert.NotEqual(t, int64(10), d.BillID, "untouched bill gets no delta")
	}
}

func TestBalanceConservation(t *testing.T) {
	// Property: each side's applied deltas sum to exactly min(totalA, totalB),
	// and after applying them the smaller side is zero.
	cases := []PairwiseDebts{
		debts(1, 2,
			[]DirectionalDebt{dd(1, 1, 2, 333), dd(2, 1, 2, 667), dd(3, 1, 2, 12000)},
			[]DirectionalDebt{dd(4, 2, 1, 9999)},
		),
		debts(1, 2,
			[]DirectionalDebt{dd(1, 1, 2, 1)},
			[]DirectionalDebt{dd(2, 2, 1, 1)},
		),
		debts(1, 2,
			[]DirectionalDebt{dd(1, 1, 2, 100), dd(2, 1, 2, 100), dd(3, 1, 2, 100)},
			[]DirectionalDebt{dd(4, 2, 1, 50), dd(5, 2, 1, 51)},
		),
	}

	for _, p := range cases {
		totalA := sumRemaining(p.AOwesB)
		totalB := sumRemaining(p.BOwesA)
		want := money.Min(totalA, totalB)

		settlement, deltas, err := Balance(p)
		require.NoError(t, err)
		require.True(t, settlement.CanBalance)

		assert.Equal(t, want, deltaSumForSide(deltas, 1), "A-side reduction")
		assert.Equal(t, want, deltaSumForSide(deltas, 2), "B-side reduction")

		newTotalA := totalA.Sub(deltaSumForSide(deltas, 1))
		newTotalB := totalB.Sub(deltaSumForSide(deltas, 2))
		assert.Equal(t, money.Zero, money.Min(newTotalA, newTotalB),
			"after balancing one direction must be fully cancelled")
	}
}

func TestBalanceRequiresBothDirections(t *testing.T) {
	oneWay := debts(1, 2,
		[]DirectionalDebt{dd(10, 1, 2, 5000)},
		nil,
	)

	_, _, err := Balance(oneWay)
	require.Error(t, err)

	var cannot *CannotBalanceError
	require.ErrorAs(t, err, &cannot)
	assert.Equal(t, money.Amount(5000), cannot.TotalAOwesB)
	assert.Equal(t, money.Zero, cannot.TotalBOwesA)

	empty := debts(1, 2, nil, nil)
	_, _, err = Balance(empty)
	assert.ErrorAs(t, err, &cannot)
}

func deltaFor(t *testing.T, deltas []LedgerDelta, billID int64) LedgerDelta {
	t.Helper()
	for _, d := range deltas {
		if d.BillID == billID {
			return d
		}
	}
	t.Fatalf("no delta for bill %d", billID)
	return LedgerDelta{}
}
