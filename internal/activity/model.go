package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an activity record
type EventType string

const (
	EventBillCreated         EventType = "BILL_CREATED"
	EventPaymentRecorded     EventType = "PAYMENT_RECORDED"
	EventBillSettled         EventType = "BILL_SETTLED"
	EventParticipantOptedOut EventType = "PARTICIPANT_OPTED_OUT"
	EventDebtsBalanced       EventType = "DEBTS_BALANCED"
)

// Activity is one entry in a user's activity feed. Recording activities is a
// best-effort side channel: ledger mutations never depend on these writes
// succeeding.
type Activity struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int64           `json:"user_id"`
	EventType EventType       `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
