package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"lompakko/internal/domain/user"
	"lompakko/internal/shared/auth"
	"lompakko/internal/shared/messages"
	"lompakko/internal/shared/middleware"
)

// AuthHandler handles registration, login and the current-user endpoint
type AuthHandler struct {
	users user.Repository
	jwt   *auth.JWT
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates a new user account and returns a session token
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Virheellinen sähköpostiosoite")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Nimi vaaditaan")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Salasanan on oltava vähintään 6 merkkiä")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "Rekisteröinti epäonnistui")
		return
	}

	u, err := h.users.Create(r.Context(), user.CreateParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, messages.EmailTaken)
			return
		}
		log.Printf("Error creating user: %v", err)
		writeError(w, http.StatusInternalServerError, "Rekisteröinti epäonnistui")
		return
	}

	h.respondWithToken(w, u)
}

// HandleLogin verifies credentials and returns a session token
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same response as a wrong password, no account enumeration.
			writeError(w, http.StatusUnauthorized, messages.InvalidCredentials)
			return
		}
		log.Printf("Error fetching user: %v", err)
		writeError(w, http.StatusInternalServerError, "Kirjautuminen epäonnistui")
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, messages.InvalidCredentials)
		return
	}

	h.respondWithToken(w, u)
}

// HandleMe returns the authenticated user's profile
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, messages.AuthRequired)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, messages.UserNotFound)
			return
		}
		log.Printf("Error fetching user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Käyttäjän haku epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *user.User) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", u.ID, err)
		writeError(w, http.StatusInternalServerError, "Kirjautuminen epäonnistui")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
}
