package money

import (
	"fmt"
)

// Amount is an integer count of the smallest currency unit (e.g. cents/halalas).
// All amounts in the system are stored and computed in minor units so that
// division never produces fractional money; any remainder is distributed
// explicitly by the caller.
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Mul returns the amount scaled by an integer factor.
func (a Amount) Mul(n int64) Amount {
	return a * Amount(n)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Abs returns the absolute value of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// SplitEven divides the amount into n integer shares using truncating division
// and returns the base share plus the remainder that could not be divided.
// The remainder is always 0 <= remainder < n for non-negative amounts; callers
// must hand it out one unit at a time so no money is lost.
func (a Amount) SplitEven(n int) (share, remainder Amount) {
	if n <= 0 {
		return 0, a
	}
	share = a / Amount(n)
	remainder = a - share*Amount(n)
	return share, remainder
}

// ScaleProportional rescales amounts so they sum exactly to target while
// keeping each element's relative weight. Each element gets the floor of its
// proportional share; the leftover units (at most len(amounts)-1) are assigned
// one at a time in input order, the same deterministic tie-break used for even
// splits. Returns nil if the input sum is zero.
func ScaleProportional(amounts []Amount, target Amount) []Amount {
	var sum Amount
	for _, a := range amounts {
		sum += a
	}
	if sum == 0 {
		return nil
	}

	scaled := make([]Amount, len(amounts))
	var distributed Amount
	for i, a := range amounts {
		scaled[i] = a * target / sum
		distributed += scaled[i]
	}

	leftover := target - distributed
	for i := 0; leftover > 0 && i < len(scaled); i++ {
		scaled[i]++
		leftover--
	}
	return scaled
}

// String formats the amount as a decimal with two fractional digits,
// e.g. 1234 -> "12.34". Display only; arithmetic stays in minor units.
func (a Amount) String() string {
	sign := ""
	v := a
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
