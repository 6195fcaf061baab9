package split

import "github.com/yzahrani/billsplit/internal/money"

// =============================================================================
// ITEM-BASED SPLIT STRATEGY
// Each item is divided among the participants it was allocated to; item
// amounts are rescaled so they absorb any tax/discount gap between the raw
// item sum and the stated bill total
// =============================================================================

// ItemBasedStrategy implements the Strategy interface for item-based splits
type ItemBasedStrategy struct{}

// Method returns the split method identifier
func (s *ItemBasedStrategy) Method() Method {
	return MethodItemBased
}

// Validate checks if the inputs are valid for an item-based split
func (s *ItemBasedStrategy) Validate(total money.Amount, payerID int64, participants []Input, items []Item) error {
	if err := validateCommon(total, payerID, participants); err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNoItems
	}

	isParticipant := make(map[int64]bool, len(participants))
	for _, p := range participants {
		isParticipant[p.UserID] = true
	}

	var itemSum money.Amount
	for _, item := range items {
		if item.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		if len(item.AllocatedTo) == 0 {
			return ErrEmptyAllocation
		}
		for _, userID := range item.AllocatedTo {
			if !isParticipant[userID] {
				return ErrUnknownAllocation
			}
		}
		itemSum = itemSum.Add(item.Amount)
	}
	if itemSum.IsZero() {
		return ErrZeroItemSum
	}
	return nil
}

// Calculate rescales every item by total/itemSum (the adjusted amounts sum
// exactly to the total), then divides each adjusted item evenly among its
// allocated participants with the same first-in-order remainder rule used for
// equal splits, scoped per item. A participant's owed amount is the sum of
// their shares across all items they appear on.
func (s *ItemBasedStrategy) Calculate(total money.Amount, payerID int64, participants []Input, items []Item) ([]Share, error) {
	if err := s.Validate(total, payerID, participants, items); err != nil {
		return nil, err
	}

	amounts := make([]money.Amount, len(items))
	for i, item := range items {
		amounts[i] = item.Amount
	}
	adjusted := money.ScaleProportional(amounts, total)

	owed := make(map[int64]money.Amount, len(participants))
	for i, item := range items {
		share, remainder := adjusted[i].SplitEven(len(item.AllocatedTo))
		for j, userID := range item.AllocatedTo {
			portion := share
			if money.Amount(j) < remainder {
				portion++
			}
			owed[userID] = owed[userID].Add(portion)
		}
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Owed: owed[p.UserID]}
	}

	seedPayer(shares, payerID)
	return shares, nil
}
