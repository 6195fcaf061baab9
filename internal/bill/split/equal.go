package split

import "github.com/yzahrani/billsplit/internal/money"

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the bill total evenly among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total money.Amount, payerID int64, participants []Input, _ []Item) error {
	return validateCommon(total, payerID, participants)
}

// Calculate divides the total evenly. Integer division leaves up to n-1 minor
// units over; those are handed out one unit at a time starting from the first
// participant in input order, so the shares always sum exactly to the total
// and the assignment is reproducible.
func (s *EqualStrategy) Calculate(total money.Amount, payerID int64, participants []Input, items []Item) ([]Share, error) {
	if err := s.Validate(total, payerID, participants, items); err != nil {
		return nil, err
	}

	share, remainder := total.SplitEven(len(participants))

	shares := make([]Share, len(participants))
	for i, p := range participants {
		owed := share
		if money.Amount(i) < remainder {
			owed++
		}
		shares[i] = Share{UserID: p.UserID, Owed: owed}
	}

	seedPayer(shares, payerID)
	return shares, nil
}
