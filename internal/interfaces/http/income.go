package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/income"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// IncomeHandler handles income endpoints
type IncomeHandler struct {
	incomes income.Repository
}

// NewIncomeHandler creates a new income handler
func NewIncomeHandler(incomes income.Repository) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

type CreateIncomeRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Date        string  `json:"date"`
	Recurring   bool    `json:"recurring"`
}

// HandleIncomes lists or creates incomes
func (h *IncomeHandler) HandleIncomes(w http.ResponseWriter, r *http.Request) {
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

func (h *IncomeHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	month := r.URL.Query().Get("month")

	incomes, err := h.incomes.ListByUserID(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error listing incomes for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Tulojen haku epäonnistui")
		return
	}

	if incomes == nil {
		incomes = []*income.Income{}
	}
	writeJSON(w, http.StatusOK, incomes)
}

func (h *IncomeHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreateIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := income.CreateParams{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Source:      req.Source,
		Date:        req.Date,
		Recurring:   req.Recurring,
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := h.incomes.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating income for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Tulon tallennus epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, in)
}

// HandleIncomeByID deletes a single income
func (h *IncomeHandler) HandleIncomeByID(w http.ResponseWriter, r *http.Request) {
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
		writeError(w, http.StatusBadRequest, messages.IncomeNotFound)
		return
	}

	if err := h.incomes.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, income.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.IncomeNotFound)
			return
		}
		log.Printf("Error deleting income %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Tulon poisto epäonnistui")
		return
	}

	writeMessage(w, http.StatusOK, messages.IncomeDeleted)
}
