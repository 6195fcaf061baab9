package bill

import (
	"time"

	"github.com/yzahrani/billsplit/internal/money"
)

// ParticipantShareRequest is one participant entry on a bill creation request.
// Owed is required for PEOPLE_BASED splits and ignored otherwise.
type ParticipantShareRequest struct {
	UserID int64  `json:"user_id" validate:"required"`
	Owed   *int64 `json:"owed,omitempty"`
}

// ItemRequest is one line item on an ITEM_BASED bill creation request.
type ItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	UnitAmount  int64   `json:"unit_amount" validate:"required,gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	AllocatedTo []int64 `json:"allocated_to" validate:"required,min=1"`
}

// CreateBillRequest represents the request to create a bill
type CreateBillRequest struct {
	Description     string                    `json:"description" validate:"required,min=1,max=255"`
	TotalAmount     int64                     `json:"total_amount" validate:"required,gt=0"`
	SplitMethod     string                    `json:"split_method" validate:"required,oneof=EQUAL ITEM_BASED PEOPLE_BASED"`
	PaymentDeadline time.Time                 `json:"payment_deadline" validate:"required"`
	Participants    []ParticipantShareRequest `json:"participants" validate:"required,min=1"`
	Items           []ItemRequest             `json:"items,omitempty"`
}

// RecordPaymentRequest represents the request to credit a payment against a bill
type RecordPaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,gte=0"`
}

// ParticipantResponse represents one ledger entry in a bill response
type ParticipantResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Owed      int64  `json:"owed"`
	Paid      int64  `json:"paid"`
	Remaining int64  `json:"remaining"`
	PaidAt    string `json:"paid_at,omitempty"`
	Excluded  bool   `json:"excluded"`
}

// ItemResponse represents one line item in a bill response
type ItemResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	UnitAmount  int64   `json:"unit_amount"`
	Quantity    int     `json:"quantity"`
	AllocatedTo []int64 `json:"allocated_to"`
}

// BillResponse represents the response for a bill with its ledger
type BillResponse struct {
	ID              int64                 `json:"id"`
	Description     string                `json:"description"`
	TotalAmount     int64                 `json:"total_amount"`
	SplitMethod     string                `json:"split_method"`
	PayerID         int64                 `json:"payer_id"`
	PayerUsername   string                `json:"payer_username,omitempty"`
	IsSettled       bool                  `json:"is_settled"`
	CreatedAt       string                `json:"created_at"`
	PaymentDeadline string                `json:"payment_deadline"`
	Participants    []ParticipantResponse `json:"participants,omitempty"`
	Items           []ItemResponse        `json:"items,omitempty"`
}

// ToResponse converts a Bill model to a BillResponse DTO
func (b *Bill) ToResponse() *BillResponse {
	resp := &BillResponse{
		ID:              b.ID,
		Description:     b.Description,
		TotalAmount:     int64(b.TotalAmount),
		SplitMethod:     string(b.SplitMethod),
		PayerID:         b.PayerID,
		PayerUsername:   b.PayerUsername,
		IsSettled:       b.IsSettled,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		PaymentDeadline: b.PaymentDeadline.Format(time.RFC3339),
	}

	for _, p := range b.Participants {
		pr := ParticipantResponse{
			UserID:    p.UserID,
			Username:  p.Username,
			Owed:      int64(p.Owed),
			Paid:      int64(p.Paid),
			Remaining: int64(p.Remaining()),
			Excluded:  p.Excluded,
		}
		if p.PaidAt != nil {
			pr.PaidAt = p.PaidAt.Format(time.RFC3339)
		}
		resp.Participants = append(resp.Participants, pr)
	}

	for _, item := range b.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			UnitAmount:  int64(item.UnitAmount),
			Quantity:    item.Quantity,
			AllocatedTo: item.AllocatedTo,
		})
	}

	return resp
}

// amountPtr converts an optional raw minor-unit value to an optional Amount.
func amountPtr(v *int64) *money.Amount {
	if v == nil {
		return nil
	}
	a := money.Amount(*v)
	return &a
}
