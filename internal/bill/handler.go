package bill

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yzahrani/billsplit/internal/bill/split"
	"github.com/yzahrani/billsplit/internal/money"
	"github.com/yzahrani/billsplit/pkg/middleware"
	"github.com/yzahrani/billsplit/pkg/response"
)

// Handler handles HTTP requests for bill operations
type Handler struct {
	service *Service
}

// NewHandler creates a new bill handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for bill endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/payments", h.RecordPayment)
	r.Post("/{id}/opt-out", h.OptOut)

	return r
}

// Create handles POST /bills
// @Summary      Create a bill
// @Description  Create a bill and calculate every participant's share with the requested split method
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body CreateBillRequest true "Bill creation request"
// @Success      201 {object} response.Envelope{data=BillResponse}
// @Failure      400 {object} response.Envelope
// @Router       /bills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	b, err := h.service.CreateBill(r.Context(), payerID, &req)
	if err != nil {
		var invalid *split.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			response.BadRequest(w, invalid.Error())
		case isSplitValidationError(err):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create bill")
		}
		return
	}

	response.JSON(w, http.StatusCreated, b.ToResponse())
}

// GetByID handles GET /bills/{id}
// @Summary      Get bill by ID
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} response.Envelope{data=BillResponse}
// @Failure      404 {object} response.Envelope
// @Router       /bills/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	b, err := h.service.GetBill(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBillNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get bill")
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// List handles GET /bills
// @Summary      List bills for the authenticated user
// @Tags         bills
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]BillResponse}
// @Router       /bills [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	bills, err := h.service.ListBillsInvolving(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list bills")
		return
	}

	resp := make([]*BillResponse, 0, len(bills))
	for _, b := range bills {
		resp = append(resp, b.ToResponse())
	}
	response.JSON(w, http.StatusOK, resp)
}

// RecordPayment handles POST /bills/{id}/payments
// @Summary      Record a payment
// @Description  Credit a payment against the authenticated user's share of the bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Param        request body RecordPaymentRequest true "Payment request"
// @Success      200 {object} response.Envelope{data=BillResponse}
// @Failure      400 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Failure      409 {object} response.Envelope
// @Router       /bills/{id}/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	b, err := h.service.RecordPayment(r.Context(), id, userID, money.Amount(req.Amount))
	if err != nil {
		h.writeLedgerError(w, err, "Failed to record payment")
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// OptOut handles POST /bills/{id}/opt-out
// @Summary      Opt out of a bill
// @Description  Drop the authenticated user's obligation on the bill while keeping their entry for audit
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200 {object} response.Envelope{data=BillResponse}
// @Failure      404 {object} response.Envelope
// @Failure      409 {object} response.Envelope
// @Router       /bills/{id}/opt-out [post]
func (h *Handler) OptOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	b, err := h.service.OptOut(r.Context(), id, userID)
	if err != nil {
		h.writeLedgerError(w, err, "Failed to opt out")
		return
	}

	response.JSON(w, http.StatusOK, b.ToResponse())
}

// writeLedgerError maps ledger mutation failures onto HTTP statuses.
func (h *Handler) writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBillNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAlreadySettled), errors.Is(err, ErrVersionConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrUnknownParticipant), errors.Is(err, ErrNegativePayment):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// isSplitValidationError reports whether err is one of the split input
// validation sentinels, so creation failures surface as 400s with the
// strategy's own message.
func isSplitValidationError(err error) bool {
	for _, sentinel := range []error{
		split.ErrUnknownMethod,
		split.ErrNoParticipants,
		split.ErrNegativeAmount,
		split.ErrPayerNotIncluded,
		split.ErrNoItems,
		split.ErrZeroItemSum,
		split.ErrEmptyAllocation,
		split.ErrUnknownAllocation,
		split.ErrMissingShare,
		split.ErrDuplicateUser,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
