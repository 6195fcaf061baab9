package debt

import (
	"time"

	"github.com/yzahrani/billsplit/internal/money"
)

// DirectionalDebt is the unpaid amount one specific user owes another on one
// specific bill. It is a derived, read-only view recomputed on demand from
// the bill ledger, never persisted on its own.
type DirectionalDebt struct {
	BillID     int64        `json:"bill_id"`
	CreditorID int64        `json:"creditor_id"`
	DebtorID   int64        `json:"debtor_id"`
	Remaining  money.Amount `json:"remaining"`
	Deadline   time.Time    `json:"deadline"`
	Overdue    bool         `json:"overdue"`
	Upcoming   bool         `json:"upcoming"`
}

// PairwiseDebts holds the unsettled amounts flowing in each direction between
// two users, each list sorted by remaining amount descending.
type PairwiseDebts struct {
	UserA  int64             `json:"user_a"`
	UserB  int64             `json:"user_b"`
	AOwesB []DirectionalDebt `json:"a_owes_b"`
	BOwesA []DirectionalDebt `json:"b_owes_a"`
}

// LedgerDelta is one payment credit the balancer wants applied to a bill's
// ledger. Deltas are plain data; applying them (atomically, all together) is
// the caller's job.
type LedgerDelta struct {
	BillID   int64        `json:"bill_id"`
	DebtorID int64        `json:"debtor_id"`
	Amount   money.Amount `json:"amount"`
}

// NetSettlement is the outcome of netting mutual debt between two users.
// Ephemeral, produced per request.
type NetSettlement struct {
	UserA             int64        `json:"user_a"`
	UserB             int64        `json:"user_b"`
	TotalAOwesB       money.Amount `json:"total_a_owes_b"`
	TotalBOwesA       money.Amount `json:"total_b_owes_a"`
	// NetAmount is signed: positive means A still owes B after cancelling,
	// negative means B still owes A.
	NetAmount         money.Amount `json:"net_amount"`
	BillsFullySettled []int64      `json:"bills_fully_settled"`
	CanBalance        bool         `json:"can_balance"`
}

// CounterpartyStats summarizes one counterparty's payment history with the
// scoring user, as loaded from the bill ledger.
type CounterpartyStats struct {
	UserID        int64
	Username      string
	CurrentDebt   money.Amount // what they currently owe the scoring user
	OverdueDebt   money.Amount // portion of that debt past its deadline
	PaymentRate   float64      // percent of their obligations ever paid off, 0-100
	AvgDaysToPay  float64      // mean days between bill creation and payment
	LastPaymentAt *time.Time
}

// Suggestion ranks a counterparty by how promising it is to ask them to pay
// next. Advisory only; it never gates a ledger mutation.
type Suggestion struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username,omitempty"`
	Score      float64 `json:"score"`
	IsReliable bool    `json:"is_reliable"`
}
