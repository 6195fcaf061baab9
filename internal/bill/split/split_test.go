package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzahrani/billsplit/internal/money"
)

func amt(v int64) *money.Amount {
	a := money.Amount(v)
	return &a
}

func inputs(userIDs ...int64) []Input {
	ins := make([]Input, len(userIDs))
	for i, id := range userIDs {
		ins[i] = Input{UserID: id}
	}
	return ins
}

func sumOwed(shares []Share) money.Amount {
	var sum money.Amount
	for _, s := range shares {
		sum = sum.Add(s.Owed)
	}
	return sum
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	for _, method := range []Method{MethodEqual, MethodItemBased, MethodPeopleBased} {
		strategy, err := f.Create(method)
		require.NoError(t, err)
		assert.Equal(t, method, strategy.Method())
	}

	_, err := f.CreateFromString("HALFSIES")
	assert.Error(t, err)
}

func TestEqualSplit(t *testing.T) {
	strategy := &EqualStrategy{}

	t.Run("remainder distributed in input order", func(t *testing.T) {
		shares, err := strategy.Calculate(100, 1, inputs(1, 2, 3), nil)
		require.NoError(t, err)
		require.Len(t, shares, 3)

		assert.Equal(t, money.Amount(34), shares[0].Owed, "first participant absorbs the extra unit")
		assert.Equal(t, money.Amount(33), shares[1].Owed)
		assert.Equal(t, money.Amount(33), shares[2].Owed)
		assert.Equal(t, money.Amount(100), sumOwed(shares))
	})

	t.Run("payer share is pre-paid", func(t *testing.T) {
		shares, err := strategy.Calculate(9000, 2, inputs(1, 2, 3), nil)
		require.NoError(t, err)

		for _, s := range shares {
			if s.UserID == 2 {
				assert.Equal(t, s.Owed, s.Paid, "payer settles their own leg")
			} else {
				assert.True(t, s.Paid.IsZero())
			}
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first, err := strategy.Calculate(101, 1, inputs(1, 2, 3), nil)
		require.NoError(t, err)
		second, err := strategy.Calculate(101, 1, inputs(1, 2, 3), nil)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := strategy.Calculate(100, 1, nil, nil)
		assert.ErrorIs(t, err, ErrNoParticipants)

		_, err = strategy.Calculate(-1, 1, inputs(1, 2), nil)
		assert.ErrorIs(t, err, ErrNegativeAmount)

		_, err = strategy.Calculate(100, 9, inputs(1, 2), nil)
		assert.ErrorIs(t, err, ErrPayerNotIncluded)

		_, err = strategy.Calculate(100, 1, inputs(1, 1), nil)
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})
}

func TestItemBasedSplit(t *testing.T) {
	strategy := &ItemBasedStrategy{}

	t.Run("items scaled to absorb tax", func(t *testing.T) {
		// Items sum to 9000, bill total is 9900 (10% tax). Every item must be
		// scaled by 1.1 and the grand total must equal the bill total.
		items := []Item{
			{Name: "Pizza", Amount: 6000, AllocatedTo: []int64{1, 2}},
			{Name: "Salad", Amount: 3000, AllocatedTo: []int64{1}},
		}
		shares, err := strategy.Calculate(9900, 1, inputs(1, 2), items)
		require.NoError(t, err)

		// Pizza scales to 6600 split two ways; salad scales to 3300.
		assert.Equal(t, money.Amount(3300+3300), shareFor(t, shares, 1).Owed)
		assert.Equal(t, money.Amount(3300), shareFor(t, shares, 2).Owed)
		assert.Equal(t, money.Amount(9900), sumOwed(shares))
	})

	t.Run("per-item remainder goes to first allocated user", func(t *testing.T) {
		items := []Item{
			{Name: "Platter", Amount: 100, AllocatedTo: []int64{2, 3, 1}},
		}
		shares, err := strategy.Calculate(100, 1, inputs(1, 2, 3), items)
		require.NoError(t, err)

		assert.Equal(t, money.Amount(34), shareFor(t, shares, 2).Owed, "first in allocation order")
		assert.Equal(t, money.Amount(33), shareFor(t, shares, 3).Owed)
		assert.Equal(t, money.Amount(33), shareFor(t, shares, 1).Owed)
	})

	t.Run("participant with no items owes nothing", func(t *testing.T) {
		items := []Item{
			{Name: "Steak", Amount: 5000, AllocatedTo: []int64{1}},
		}
		shares, err := strategy.Calculate(5000, 1, inputs(1, 2), items)
		require.NoError(t, err)

		assert.True(t, shareFor(t, shares, 2).Owed.IsZero())
		assert.Equal(t, money.Amount(5000), sumOwed(shares))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := strategy.Calculate(100, 1, inputs(1, 2), nil)
		assert.ErrorIs(t, err, ErrNoItems)

		_, err = strategy.Calculate(100, 1, inputs(1, 2), []Item{{Name: "x", Amount: 100}})
		assert.ErrorIs(t, err, ErrEmptyAllocation)

		_, err = strategy.Calculate(100, 1, inputs(1, 2), []Item{{Name: "x", Amount: 0, AllocatedTo: []int64{1}}})
		assert.ErrorIs(t, err, ErrZeroItemSum)

		_, err = strategy.Calculate(100, 1, inputs(1, 2), []Item{{Name: "x", Amount: 100, AllocatedTo: []int64{7}}})
		assert.ErrorIs(t, err, ErrUnknownAllocation)
	})
}

func TestPeopleBasedSplit(t *testing.T) {
	strategy := &PeopleBasedStrategy{}

	t.Run("explicit shares pass through", func(t *testing.T) {
		participants := []Input{
			{UserID: 1, Owed: amt(7000)},
			{UserID: 2, Owed: amt(3000)},
		}
		shares, err := strategy.Calculate(10000, 1, participants, nil)
		require.NoError(t, err)

		assert.Equal(t, money.Amount(7000), shareFor(t, shares, 1).Owed)
		assert.Equal(t, money.Amount(3000), shareFor(t, shares, 2).Owed)
		assert.Equal(t, money.Amount(7000), shareFor(t, shares, 1).Paid, "payer pre-paid")
	})

	t.Run("mismatch rejected with the exact amounts", func(t *testing.T) {
		participants := []Input{
			{UserID: 1, Owed: amt(60)},
			{UserID: 2, Owed: amt(45)},
		}
		_, err := strategy.Calculate(100, 1, participants, nil)
		require.Error(t, err)

		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, money.Amount(100), invalid.Total)
		assert.Equal(t, money.Amount(105), invalid.ShareSum)
		assert.Contains(t, invalid.Error(), "0.05", "mismatch amount named in the message")
	})

	t.Run("missing share rejected", func(t *testing.T) {
		participants := []Input{
			{UserID: 1, Owed: amt(100)},
			{UserID: 2},
		}
		_, err := strategy.Calculate(100, 1, participants, nil)
		assert.ErrorIs(t, err, ErrMissingShare)
	})

	t.Run("negative share rejected", func(t *testing.T) {
		participants := []Input{
			{UserID: 1, Owed: amt(150)},
			{UserID: 2, Owed: amt(-50)},
		}
		_, err := strategy.Calculate(100, 1, participants, nil)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

// TestConservation checks the core invariant across every strategy: the owed
// amounts always sum exactly to the bill total.
func TestConservation(t *testing.T) {
	f := NewFactory()
	totals := []money.Amount{1, 99, 100, 101, 9999, 123457}

	for _, total := range totals {
		equal, err := f.Create(MethodEqual)
		require.NoError(t, err)
		shares, err := equal.Calculate(total, 1, inputs(1, 2, 3, 4, 5, 6, 7), nil)
		require.NoError(t, err)
		assert.Equal(t, total, sumOwed(shares), "equal split of %d", total)

		itemBased, err := f.Create(MethodItemBased)
		require.NoError(t, err)
		items := []Item{
			{Name: "a", Amount: 17, AllocatedTo: []int64{1, 2, 3}},
			{Name: "b", Amount: 23, AllocatedTo: []int64{2}},
			{Name: "c", Amount: 60, AllocatedTo: []int64{1, 3}},
		}
		shares, err = itemBased.Calculate(total, 1, inputs(1, 2, 3), items)
		require.NoError(t, err)
		assert.Equal(t, total, sumOwed(shares), "item-based split of %d", total)
	}
}

func shareFor(t *testing.T, shares []Share, userID int64) Share {
	t.Helper()
	for _, s := range shares {
		if s.UserID == userID {
			return s
		}
	}
	t.Fatalf("no share for user %d", userID)
	return Share{}
}
