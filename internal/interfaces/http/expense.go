package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/expense"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	expenses expense.Repository
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses expense.Repository) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// HandleExpenses lists or creates expenses
func (h *ExpenseHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	month := r.URL.Query().Get("month")

	expenses, err := h.expenses.ListByUserID(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error listing expenses for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Kulujen haku epäonnistui")
		return
	}

	if expenses == nil {
		expenses = []*expense.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := expense.CreateParams{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    expense.CategoryOrDefault(req.Category),
		Date:        req.Date,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := h.expenses.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating expense for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Kulun tallennus epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// HandleExpenseByID deletes a single expense
func (h *ExpenseHandler) HandleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, messages.ExpenseNotFound)
		return
	}

	if err := h.expenses.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.ExpenseNotFound)
			return
		}
		log.Printf("Error deleting expense %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Kulun poisto epäonnistui")
		return
	}

	writeMessage(w, http.StatusOK, messages.ExpenseDeleted)
}
