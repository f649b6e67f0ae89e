package http

import (
	"errors"
	"log"
	"net/http"

	"lompakko/internal/domain/savings"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// SavingsHandler handles savings goal endpoints
type SavingsHandler struct {
	goals savings.Repository
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(goals savings.Repository) *SavingsHandler {
	return &SavingsHandler{goals: goals}
}

type SavingsGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    *string `json:"target_date"`
	Icon          string  `json:"icon"`
}

func (req SavingsGoalRequest) toParams(userID string) savings.CreateParams {
	return savings.CreateParams{
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Icon:          req.Icon,
	}
}

// HandleSavingsGoals lists or creates savings goals
func (h *SavingsHandler) HandleSavingsGoals(w http.ResponseWriter, r *http.Request) {
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

func (h *SavingsHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	goals, err := h.goals.ListByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing savings goals for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Säästötavoitteiden haku epäonnistui")
		return
	}

	if goals == nil {
		goals = []*savings.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *SavingsHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req SavingsGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := req.toParams(userID)
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.goals.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating savings goal for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Säästötavoitteen tallennus epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, g)
}

// HandleSavingsGoalByID updates or deletes a single savings goal
func (h *SavingsHandler) HandleSavingsGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, messages.SavingsNotFound)
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

func (h *SavingsHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, id string) {
	var req SavingsGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := req.toParams(userID)
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.goals.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, savings.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.SavingsNotFound)
			return
		}
		log.Printf("Error updating savings goal %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Säästötavoitteen päivitys epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *SavingsHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, id string) {
	if err := h.goals.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, savings.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.SavingsNotFound)
			return
		}
		log.Printf("Error deleting savings goal %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Säästötavoitteen poisto epäonnistui")
		return
	}

	writeMessage(w, http.StatusOK, messages.SavingsDeleted)
}
