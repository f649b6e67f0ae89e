package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/loan"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loans loan.Repository
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loans loan.Repository) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type LoanRequest struct {
	Name            string  `json:"name"`
	LoanType        string  `json:"loan_type"`
	OriginalAmount  float64 `json:"original_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	InterestRate    float64 `json:"interest_rate"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date"`
}

func (req LoanRequest) toParams(userID string) loan.CreateParams {
	return loan.CreateParams{
		UserID:          userID,
		Name:            req.Name,
		LoanType:        req.LoanType,
		OriginalAmount:  req.OriginalAmount,
		RemainingAmount: req.RemainingAmount,
		InterestRate:    req.InterestRate,
		MonthlyPayment:  req.MonthlyPayment,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
}

// HandleLoans lists or creates loans
func (h *LoanHandler) HandleLoans(w http.ResponseWriter, r *http.Request) {
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

func (h *LoanHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	loans, err := h.loans.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing loans for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Lainojen haku epäonnistui")
		return
	}

	if loans == nil {
		loans = []*loan.Loan{}
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoanHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req LoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := req.toParams(userID)
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.loans.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating loan for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Lainan tallennus epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, l)
}

// HandleLoanByID updates or deletes a single loan
func (h *LoanHandler) HandleLoanByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, messages.LoanNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handleUpdate(w, r, userID, id)
	case http.MethodDelete:
		h.handleDelete(w, r, userID, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *LoanHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, id string) {
	var req LoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := req.toParams(userID)
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := h.loans.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.LoanNotFound)
			return
		}
		log.Printf("Error updating loan %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Lainan päivitys epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (h *LoanHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, id string) {
	if err := h.loans.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.LoanNotFound)
			return
		}
		log.Printf("Error deleting loan %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Lainan poisto epäonnistui")
		return
	}

	writeMessage(w, http.StatusOK, messages.LoanDeleted)
}
