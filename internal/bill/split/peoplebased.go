package split

import "github.com/yzahrani/billsplit/internal/money"

// =============================================================================
// PEOPLE-BASED SPLIT STRATEGY
// The caller supplies an explicit owed amount per participant
// =============================================================================

// PeopleBasedStrategy implements the Strategy interface for explicit-share splits
type PeopleBasedStrategy struct{}

// Method returns the split method identifier
func (s *PeopleBasedStrategy) Method() Method {
	return MethodPeopleBased
}

// Validate checks that every participant carries a non-negative explicit share
// and that the shares account for the full bill total. A mismatch is rejected
// with the exact figures; it is never clamped or redistributed.
func (s *PeopleBasedStrategy) Validate(total money.Amount, payerID int64, participants []Input, _ []Item) error {
	if err := validateCommon(total, payerID, participants); err != nil {
		return err
	}

	var sum money.Amount
	for _, p := range participants {
		if p.Owed == nil {
			return ErrMissingShare
		}
		if p.Owed.IsNegative() {
			return ErrNegativeAmount
		}
		sum = sum.Add(*p.Owed)
	}

	if sum.Sub(total).Abs() > ShareToleranceUnits {
		return &InvalidInputError{Total: total, ShareSum: sum}
	}
	return nil
}

// Calculate copies the supplied shares through unchanged.
func (s *PeopleBasedStrategy) Calculate(total money.Amount, payerID int64, participants []Input, items []Item) ([]Share, error) {
	if err := s.Validate(total, payerID, participants, items); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Owed: *p.Owed}
	}

	seedPayer(shares, payerID)
	return shares, nil
}
