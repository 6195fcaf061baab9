package bill

import (
	"errors"
	"time"

	"github.com/yzahrani/billsplit/internal/money"
)

// Common errors
var (
	ErrAlreadySettled     = errors.New("bill is already settled")
	ErrUnknownParticipant = errors.New("user is not an active participant in this bill")
	ErrNegativePayment    = errors.New("payment amount cannot be negative")
)

// ApplyPayment credits a payment against the participant's obligation.
// Payments accumulate, so partial payments across several calls are fine;
// PaidAt is stamped on the first non-zero payment. Settlement is re-evaluated
// afterwards and is one-way: once the bill is settled, further payments are
// rejected with ErrAlreadySettled and the ledger stays untouched.
func (b *Bill) ApplyPayment(userID int64, amount money.Amount, now time.Time) error {
	if amount.IsNegative() {
		return ErrNegativePayment
	}
	if b.IsSettled {
		return ErrAlreadySettled
	}

	p := b.ParticipantFor(userID)
	if p == nil || p.Excluded {
		return ErrUnknownParticipant
	}

	if amount.IsPositive() && p.PaidAt == nil {
		stamp := now
		p.PaidAt = &stamp
	}
	p.Paid = p.Paid.Add(amount)

	b.refreshSettlement()
	return nil
}

// OptOut removes a participant's obligation without deleting their entry:
// owed drops to zero and the entry is flagged excluded. Dropping an unpaid
// obligation can complete settlement for everyone else, so settlement is
// re-evaluated here too.
func (b *Bill) OptOut(userID int64) error {
	if b.IsSettled {
		return ErrAlreadySettled
	}

	p := b.ParticipantFor(userID)
	if p == nil || p.Excluded {
		return ErrUnknownParticipant
	}

	p.Owed = money.Zero
	p.Excluded = true

	b.refreshSettlement()
	return nil
}

// refreshSettlement sets IsSettled when every active participant has paid at
// least what they owe. It only ever flips false -> true.
func (b *Bill) refreshSettlement() {
	if b.IsSettled {
		return
	}
	for _, p := range b.Participants {
		if p.Excluded {
			continue
		}
		if p.Paid < p.Owed {
			return
		}
	}
	b.IsSettled = true
}
