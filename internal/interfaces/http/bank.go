package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/bank"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// BankHandler handles open banking endpoints
type BankHandler struct {
	banks *bank.Service
}

// NewBankHandler creates a new bank handler
func NewBankHandler(banks *bank.Service) *BankHandler {
	return &BankHandler{banks: banks}
}

type ConnectBankRequest struct {
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
	RedirectURL     string `json:"redirect_url"`
}

type ImportResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

type AccountsResponse struct {
	Accounts []bank.Account `json:"accounts"`
}

// HandleInstitutions lists banks available for connection
func (h *BankHandler) HandleInstitutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if _, ok := middleware.UserID(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	institutions, err := h.banks.Institutions(r.Context(), r.URL.Query().Get("country"))
	if err != nil {
		h.writeBankError(w, err, messages.BankAccountsFailed, "Error listing institutions")
		return
	}

	writeJSON(w, http.StatusOK, institutions)
}

// HandleConnect starts the bank authentication flow
func (h *BankHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	var req ConnectBankRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.InstitutionID == "" || req.RedirectURL == "" {
		writeError(w, http.StatusBadRequest, "institution_id ja redirect_url vaaditaan")
		return
	}

	result, err := h.banks.Connect(r.Context(), userID, req.InstitutionID, req.InstitutionName, req.RedirectURL)
	if err != nil {
		h.writeBankError(w, err, messages.BankConnectFailed, "Error connecting bank")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleConnections lists the user's bank connections
func (h *BankHandler) HandleConnections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	connections, err := h.banks.Connections(r.Context(), userID)
	if err != nil {
		h.writeBankError(w, err, messages.BankAccountsFailed, "Error listing connections")
		return
	}

	if connections == nil {
		connections = []*bank.Connection{}
	}
	writeJSON(w, http.StatusOK, connections)
}

// HandleConnectionByID deletes a bank connection
func (h *BankHandler) HandleConnectionByID(w http.ResponseWriter, r *http.Request) {
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
	if err := h.banks.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.ConnectionNotFound)
			return
		}
		log.Printf("Error deleting connection %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, messages.BankAccountsFailed)
		return
	}

	writeMessage(w, http.StatusOK, "Pankkiyhteys poistettu")
}

// HandleAccounts lists accounts behind one connection
func (h *BankHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	id := r.PathValue("id")
	accounts, err := h.banks.Accounts(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.ConnectionNotFound)
			return
		}
		h.writeBankError(w, err, messages.BankAccountsFailed, "Error listing accounts")
		return
	}

	if accounts == nil {
		accounts = []bank.Account{}
	}
	writeJSON(w, http.StatusOK, AccountsResponse{Accounts: accounts})
}

// HandleImport imports booked transactions from one account as expenses
func (h *BankHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	accountID := r.PathValue("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account_id vaaditaan")
		return
	}

	imported, err := h.banks.ImportByAccount(r.Context(), userID, accountID)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.ConnectionNotFound)
			return
		}
		h.writeBankError(w, err, messages.BankImportFailed, "Error importing transactions")
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Imported: imported,
		Message:  messages.ImportedTransactions(imported),
	})
}

// writeBankError maps the missing-configuration case to the detail text
// clients match on, everything else to the given fallback.
func (h *BankHandler) writeBankError(w http.ResponseWriter, err error, fallback, logPrefix string) {
	if errors.Is(err, bank.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, messages.BankNotConfigured)
		return
	}
	log.Printf("%s: %v", logPrefix, err)
	writeError(w, http.StatusInternalServerError, fallback)
}
