package bill

import (
	"time"

	"github.com/yzahrani/billsplit/internal/bill/split"
	"github.com/yzahrani/billsplit/internal/money"
)

// Participant is one person's ledger entry on a bill: what they owe and what
// they have paid so far. Entries are never deleted while the bill exists;
// opting out zeroes the obligation and flags the entry instead, preserving
// the audit history.
type Participant struct {
	ID       int64         `json:"id"`
	BillID   int64         `json:"bill_id"`
	UserID   int64         `json:"user_id"`
	Owed     money.Amount  `json:"owed"`
	Paid     money.Amount  `json:"paid"`
	PaidAt   *time.Time    `json:"paid_at,omitempty"`
	Excluded bool          `json:"excluded"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// Remaining returns the unpaid portion of this participant's obligation.
// Negative values (overpayment) are reported as zero.
func (p *Participant) Remaining() money.Amount {
	remaining := p.Owed.Sub(p.Paid)
	if remaining.IsNegative() {
		return money.Zero
	}
	return remaining
}

// Item is a single line on an item-based bill, owned by the bill and never
// shared across bills.
type Item struct {
	ID          int64        `json:"id"`
	BillID      int64        `json:"bill_id"`
	Name        string       `json:"name"`
	UnitAmount  money.Amount `json:"unit_amount"`
	Quantity    int          `json:"quantity"`
	AllocatedTo []int64      `json:"allocated_to"`
}

// Total returns the item's contribution to the bill: unit amount times quantity.
func (i *Item) Total() money.Amount {
	return i.UnitAmount.Mul(int64(i.Quantity))
}

// Bill is the aggregate root: a total amount, how it was split, and the
// per-participant ledger derived from the split.
type Bill struct {
	ID              int64          `json:"id"`
	Description     string         `json:"description"`
	TotalAmount     money.Amount   `json:"total_amount"`
	SplitMethod     split.Method   `json:"split_method"`
	PayerID         int64          `json:"payer_id"`
	Participants    []*Participant `json:"participants,omitempty"`
	Items           []*Item        `json:"items,omitempty"`
	IsSettled       bool           `json:"is_settled"`
	CreatedAt       time.Time      `json:"created_at"`
	PaymentDeadline time.Time      `json:"payment_deadline"`
	Version         int            `json:"version"` // optimistic locking

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// ParticipantFor returns the ledger entry for userID, or nil if the user is
// not on this bill.
func (b *Bill) ParticipantFor(userID int64) *Participant {
	for _, p := range b.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}
