package debt

import (
	"sort"
	"time"

	"github.com/yzahrani/billsplit/pkg/clock"
)

// Scoring weights and thresholds. The score blends how much a counterparty
// currently owes, how consistently they pay, how fast, and how recently they
// were active, with a flat penalty for carrying overdue debt.
const (
	weightCurrentDebt = 0.40
	weightPaymentRate = 0.30
	weightSpeed       = 0.20
	weightRecency     = 0.10

	overduePenalty = 20.0

	// debtUnitDivisor normalizes the current debt (in whole currency units)
	// before weighting.
	debtUnitDivisor = 1000.0

	// speedTargetDays is the payback window that earns a full speed score.
	speedTargetDays = 30.0

	reliablePaymentRate = 80.0
	reliableMaxAvgDays  = 14.0
)

// Scorer ranks counterparties by payment reliability to suggest who should
// pay next. Output is advisory only.
type Scorer struct {
	clock clock.Clock
}

// NewScorer creates a scorer using the given clock for recency calculations.
func NewScorer(clk clock.Clock) *Scorer {
	return &Scorer{clock: clk}
}

// Score computes the suggestion score for one counterparty, clamped to
// [0, 100] after the overdue penalty (the raw sum can go negative).
func (s *Scorer) Score(stats CounterpartyStats) Suggestion {
	debtUnits := float64(stats.CurrentDebt) / 100.0 // minor units -> currency units

	score := debtUnits/debtUnitDivisor*weightCurrentDebt +
		stats.PaymentRate*weightPaymentRate +
		paymentSpeedScore(stats.AvgDaysToPay)*weightSpeed +
		s.recentActivityScore(stats.LastPaymentAt)*weightRecency

	if stats.OverdueDebt.IsPositive() {
		score -= overduePenalty
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return Suggestion{
		UserID:     stats.UserID,
		Username:   stats.Username,
		Score:      score,
		IsReliable: isReliable(stats),
	}
}

// Suggest scores every counterparty and returns them best-first.
func (s *Scorer) Suggest(stats []CounterpartyStats) []Suggestion {
	suggestions := make([]Suggestion, len(stats))
	for i, st := range stats {
		suggestions[i] = s.Score(st)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions
}

// paymentSpeedScore rewards paying within the target window: 1.0 for instant
// payment, linearly down to 0 at speedTargetDays or slower.
func paymentSpeedScore(avgDaysToPay float64) float64 {
	score := (speedTargetDays - avgDaysToPay) / speedTargetDays
	if score < 0 {
		return 0
	}
	return score
}

// recentActivityScore: full credit for a payment in the last 30 days, half
// inside 90, nothing beyond that.
func (s *Scorer) recentActivityScore(lastPaymentAt *time.Time) float64 {
	if lastPaymentAt == nil {
		return 0
	}
	age := s.clock.Now().Sub(*lastPaymentAt)
	switch {
	case age < 30*24*time.Hour:
		return 1.0
	case age < 90*24*time.Hour:
		return 0.5
	default:
		return 0
	}
}

func isReliable(stats CounterpartyStats) bool {
	return stats.PaymentRate >= reliablePaymentRate &&
		stats.AvgDaysToPay <= reliableMaxAvgDays &&
		stats.OverdueDebt.IsZero()
}
