package split

import (
	"errors"
	"fmt"

	"github.com/yzahrani/billsplit/internal/money"
)

// Method identifies how a bill total is divided among participants.
type Method string

const (
	MethodEqual       Method = "EQUAL"
	MethodItemBased   Method = "ITEM_BASED"
	MethodPeopleBased Method = "PEOPLE_BASED"
)

// ShareToleranceUnits is the maximum absolute gap allowed between the sum of
// explicitly supplied shares and the bill total. Amounts are integer minor
// units, so there is no float rounding to absorb and the tolerance is zero.
// Kept as an absolute (not relative) bound on purpose.
const ShareToleranceUnits money.Amount = 0

// Input is one participant entering a split calculation.
type Input struct {
	UserID int64
	// Owed is the explicit share for PEOPLE_BASED splits; nil otherwise.
	Owed *money.Amount
}

// Item is a single line on an item-based bill.
type Item struct {
	Name        string
	Amount      money.Amount
	AllocatedTo []int64
}

// Share is the calculated obligation for one participant. The payer's share
// comes back with Paid pre-seeded to Owed (paying the bill settles your own
// leg implicitly); everyone else starts at zero.
type Share struct {
	UserID int64
	Owed   money.Amount
	Paid   money.Amount
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes every participant's share. The returned shares
	// always sum exactly to the total; remainders are distributed, never
	// dropped.
	Calculate(total money.Amount, payerID int64, participants []Input, items []Item) ([]Share, error)

	// Method returns the identifier for this strategy
	Method() Method

	// Validate checks if the inputs are valid for this strategy
	Validate(total money.Amount, payerID int64, participants []Input, items []Item) error
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the method. The switch is
// exhaustive over the Method constants; adding a method without a branch here
// is caught by the unknown-method error in every test that exercises it.
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodItemBased:
		return &ItemBasedStrategy{}, nil
	case MethodPeopleBased:
		return &PeopleBasedStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// CreateFromString creates a strategy from a string method (useful for API requests)
func (f *Factory) CreateFromString(method string) (Strategy, error) {
	return f.Create(Method(method))
}

var (
	ErrUnknownMethod      = errors.New("unknown split method")
	ErrNoParticipants     = errors.New("at least one participant is required")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrPayerNotIncluded   = errors.New("payer must be one of the participants")
	ErrNoItems            = errors.New("at least one item is required for an item-based split")
	ErrZeroItemSum        = errors.New("item amounts sum to zero")
	ErrEmptyAllocation    = errors.New("every item must be allocated to at least one participant")
	ErrUnknownAllocation  = errors.New("item allocated to a user who is not a participant")
	ErrMissingShare       = errors.New("explicit share required for all participants")
	ErrDuplicateUser      = errors.New("participants must be unique")
)

// InvalidInputError reports a share/total mismatch with the exact figures so
// the caller can surface them. It is never auto-corrected.
type InvalidInputError struct {
	Total    money.Amount
	ShareSum money.Amount
}

func (e *InvalidInputError) Error() string {
	mismatch := e.ShareSum.Sub(e.Total).Abs()
	return fmt.Sprintf("supplied shares sum to %s but the bill total is %s (mismatch %s)",
		e.ShareSum, e.Total, mismatch)
}

// validateCommon applies the checks shared by every strategy.
func validateCommon(total money.Amount, payerID int64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}

	seen := make(map[int64]bool, len(participants))
	payerIncluded := false
	for _, p := range participants {
		if seen[p.UserID] {
			return ErrDuplicateUser
		}
		seen[p.UserID] = true
		if p.UserID == payerID {
			payerIncluded = true
		}
	}
	if !payerIncluded {
		return ErrPayerNotIncluded
	}
	return nil
}

// seedPayer pre-fills the payer's paid amount with their own share.
func seedPayer(shares []Share, payerID int64) {
	for i := range shares {
		if shares[i].UserID == payerID {
			shares[i].Paid = shares[i].Owed
			return
		}
	}
}
