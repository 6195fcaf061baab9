package debt

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yzahrani/billsplit/internal/bill"
	"github.com/yzahrani/billsplit/pkg/middleware"
	"github.com/yzahrani/billsplit/pkg/response"
)

// Handler handles HTTP requests for debt operations
type Handler struct {
	service *Service
}

// NewHandler creates a new debt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for debt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/with/{userId}", h.PairwiseDebts)
	r.Post("/with/{userId}/balance", h.BalanceDebts)
	r.Get("/suggestions", h.SuggestPayers)

	return r
}

// PairwiseDebts handles GET /debts/with/{userId}
// @Summary      Pairwise debts
// @Description  Get the unsettled debt flowing each way between the authenticated user and another user
// @Tags         debts
// @Produce      json
// @Param        userId path int true "Counterparty user ID"
// @Success      200 {object} response.Envelope{data=PairwiseDebts}
// @Router       /debts/with/{userId} [get]
func (h *Handler) PairwiseDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	otherID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || otherID == userID {
		response.BadRequest(w, "Invalid counterparty user ID")
		return
	}

	debts, err := h.service.PairwiseDebts(r.Context(), userID, otherID)
	if err != nil {
		response.InternalError(w, "Failed to load debts")
		return
	}

	response.JSON(w, http.StatusOK, debts)
}

// BalanceDebts handles POST /debts/with/{userId}/balance
// @Summary      Balance mutual debts
// @Description  Net the mutual debt between the authenticated user and another user and apply the credits atomically
// @Tags         debts
// @Produce      json
// @Param        userId path int true "Counterparty user ID"
// @Success      200 {object} response.Envelope{data=NetSettlement}
// @Failure      400 {object} response.Envelope
// @Failure      409 {object} response.Envelope
// @Router       /debts/with/{userId}/balance [post]
func (h *Handler) BalanceDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	otherID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || otherID == userID {
		response.BadRequest(w, "Invalid counterparty user ID")
		return
	}

	settlement, err := h.service.BalanceDebts(r.Context(), userID, otherID)
	if err != nil {
		var cannot *CannotBalanceError
		switch {
		case errors.As(err, &cannot):
			response.BadRequest(w, cannot.Error())
		case errors.Is(err, bill.ErrVersionConflict):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to balance debts")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement)
}

// SuggestPayers handles GET /debts/suggestions
// @Summary      Suggest payers
// @Description  Rank the authenticated user's debtors by likelihood of paying if asked now
// @Tags         debts
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]Suggestion}
// @Router       /debts/suggestions [get]
func (h *Handler) SuggestPayers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "User identity required")
		return
	}

	suggestions, err := h.service.SuggestPayers(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load suggestions")
		return
	}

	response.JSON(w, http.StatusOK, suggestions)
}
