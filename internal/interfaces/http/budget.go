package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"lompakko/internal/domain/budget"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// BudgetHandler handles monthly budget endpoints
type BudgetHandler struct {
	budgets budget.Repository
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgets budget.Repository) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

type SetBudgetRequest struct {
	Amount float64 `json:"amount"`
	Month  string  `json:"month"`
}

// HandleBudgets lists budgets or sets the budget for a month
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleSet(w, r, userID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *BudgetHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	budgets, err := h.budgets.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing budgets for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Budjettien haku epäonnistui")
		return
	}

	if budgets == nil {
		budgets = []*budget.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) handleSet(w http.ResponseWriter, r *http.Request, userID string) {
	var req SetBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Missing month means the current one.
	if req.Month == "" {
		req.Month = budget.CurrentMonth(time.Now())
	}

	params := budget.CreateParams{
		UserID: userID,
		Amount: req.Amount,
		Month:  req.Month,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.budgets.Upsert(r.Context(), params)
	if err != nil {
		log.Printf("Error upserting budget for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Budjetin tallennus epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// HandleCurrentBudget returns the budget for the current month
func (h *BudgetHandler) HandleCurrentBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	b, err := h.budgets.GetByMonth(r.Context(), userID, budget.CurrentMonth(time.Now()))
	if err != nil {
		// No budget for the month is a normal state, not an error.
		if errors.Is(err, budget.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		log.Printf("Error fetching current budget for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Budjetin haku epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, b)
}
