package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name          string
		amount        Amount
		n             int
		wantShare     Amount
		wantRemainder Amount
	}{
		{"divides evenly", 9000, 3, 3000, 0},
		{"one unit left over", 100, 3, 33, 1},
		{"two units left over", 101, 3, 33, 2},
		{"more people than units", 2, 5, 0, 2},
		{"single participant", 777, 1, 777, 0},
		{"zero amount", 0, 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, remainder := tt.amount.SplitEven(tt.n)
			assert.Equal(t, tt.wantShare, share)
			assert.Equal(t, tt.wantRemainder, remainder)
			// The pieces must reassemble into the original amount.
			assert.Equal(t, tt.amount, share*Amount(tt.n)+remainder)
		})
	}
}

func TestSplitEvenInvalidCount(t *testing.T) {
	share, remainder := Amount(500).SplitEven(0)
	assert.Equal(t, Zero, share)
	assert.Equal(t, Amount(500), remainder, "full amount returned as remainder so nothing is lost")
}

func TestScaleProportional(t *testing.T) {
	t.Run("scales up to absorb tax", func(t *testing.T) {
		// Items sum to 9000 but the bill total is 9900 (10% tax).
		scaled := ScaleProportional([]Amount{3000, 6000}, 9900)
		require.Len(t, scaled, 2)
		assert.Equal(t, Amount(3300), scaled[0])
		assert.Equal(t, Amount(6600), scaled[1])
	})

	t.Run("scales down for discounts", func(t *testing.T) {
		scaled := ScaleProportional([]Amount{500, 500}, 900)
		require.Len(t, scaled, 2)
		assert.Equal(t, Amount(450), scaled[0])
		assert.Equal(t, Amount(450), scaled[1])
	})

	t.Run("leftover units go to earlier elements", func(t *testing.T) {
		scaled := ScaleProportional([]Amount{100, 100, 100}, 100)
		require.Len(t, scaled, 3)

		var sum Amount
		for _, s := range scaled {
			sum += s
		}
		assert.Equal(t, Amount(100), sum, "scaled amounts must sum exactly to the target")
		assert.GreaterOrEqual(t, int64(scaled[0]), int64(scaled[2]), "extra units are assigned in input order")
	})

	t.Run("zero input sum", func(t *testing.T) {
		assert.Nil(t, ScaleProportional([]Amount{0, 0}, 100))
	})
}

func TestScaleProportionalConservation(t *testing.T) {
	// Awkward ratios must still conserve money exactly.
	cases := [][]Amount{
		{333, 333, 334},
		{1, 2, 3, 4, 5, 6, 7},
		{999, 1},
	}
	targets := []Amount{1000, 99, 12345}

	for _, amounts := range cases {
		for _, target := range targets {
			scaled := ScaleProportional(amounts, target)
			require.NotNil(t, scaled)
			var sum Amount
			for _, s := range scaled {
				sum += s
			}
			assert.Equal(t, target, sum, "amounts %v target %v", amounts, target)
		}
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "12.34", Amount(1234).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-3.50", Amount(-350).String())
	assert.Equal(t, "0.00", Zero.String())
}
