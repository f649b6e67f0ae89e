package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lompakko/internal/domain/user"
	"lompakko/internal/shared/auth"
	"lompakko/internal/shared/middleware"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id string) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepo) ActivateSubscription(ctx context.Context, userID string, until time.Time) error {
	return nil
}

func (m *MockUserRepo) DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func testJWT(t *testing.T) *auth.JWT {
	t.Helper()
	return auth.NewJWT("test-secret")
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Detail
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           RegisterRequest
		mockRepo       func() *MockUserRepo
		expectedStatus int
		expectedDetail string
	}{
		{
			name: "Success",
			body: RegisterRequest{Email: "Matti@Example.com", Name: "Matti", Password: "salasana1"},
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					CreateFunc: func(ctx context.Context, params user.CreateParams) (*user.User, error) {
						if params.Email != "matti@example.com" {
							t.Errorf("email should be lowercased, got %q", params.Email)
						}
						return &user.User{ID: "user-1", Email: params.Email, Name: params.Name}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Email Taken",
			body: RegisterRequest{Email: "matti@example.com", Name: "Matti", Password: "salasana1"},
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					CreateFunc: func(ctx context.Context, params user.CreateParams) (*user.User, error) {
						return nil, user.ErrEmailTaken
					},
				}
			},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Sähköposti on jo käytössä",
		},
		{
			name:           "Invalid Email",
			body:           RegisterRequest{Email: "not-an-email", Name: "Matti", Password: "salasana1"},
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Short Password",
			body:           RegisterRequest{Email: "matti@example.com", Name: "Matti", Password: "abc"},
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(tt.mockRepo(), testJWT(t))
			rr := postJSON(t, handler.HandleRegister, "/api/auth/register", tt.body)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.expectedDetail != "" && decodeDetail(t, rr) != tt.expectedDetail {
				t.Errorf("detail = %q, want %q", decodeDetail(t, rr), tt.expectedDetail)
			}
			if tt.expectedStatus == http.StatusOK {
				var resp AuthResponse
				if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Token == "" {
					t.Errorf("expected a token in the response, got %s", rr.Body.String())
				}
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	hash, _ := auth.HashPassword("oikea-salasana")
	stored := &user.User{ID: "user-1", Email: "matti@example.com", PasswordHash: hash}

	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, user.ErrNotFound
		},
	}
	handler := NewAuthHandler(repo, testJWT(t))

	t.Run("Success", func(t *testing.T) {
		rr := postJSON(t, handler.HandleLogin, "/api/auth/login", LoginRequest{
			Email: "matti@example.com", Password: "oikea-salasana",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		rr := postJSON(t, handler.HandleLogin, "/api/auth/login", LoginRequest{
			Email: "matti@example.com", Password: "väärä",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		if decodeDetail(t, rr) != "Virheellinen sähköposti tai salasana" {
			t.Errorf("unexpected detail %q", decodeDetail(t, rr))
		}
	})

	t.Run("Unknown Email Gets Same Error", func(t *testing.T) {
		rr := postJSON(t, handler.HandleLogin, "/api/auth/login", LoginRequest{
			Email: "tuntematon@example.com", Password: "mitävain",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		if decodeDetail(t, rr) != "Virheellinen sähköposti tai salasana" {
			t.Errorf("unknown email should return the credentials error, got %q", decodeDetail(t, rr))
		}
	})
}

func TestHandleMe(t *testing.T) {
	repo := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*user.User, error) {
			if id == "user-1" {
				return &user.User{ID: "user-1", Email: "matti@example.com", Name: "Matti"}, nil
			}
			return nil, user.ErrNotFound
		},
	}
	handler := NewAuthHandler(repo, testJWT(t))

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		handler.HandleMe(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var u user.User
		if err := json.Unmarshal(rr.Body.Bytes(), &u); err != nil || u.ID != "user-1" {
			t.Errorf("unexpected body %s", rr.Body.String())
		}
	})

	t.Run("No Identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rr := httptest.NewRecorder()
		handler.HandleMe(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})
}
