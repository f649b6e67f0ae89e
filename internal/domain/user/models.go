package user

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is the account owner. PasswordHash is never serialized.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	PasswordHash       string     `json:"-"`
	SubscriptionActive bool       `json:"subscription_active"`
	SubscriptionEnd    *time.Time `json:"subscription_end"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Subscribed reports whether the user currently has an active subscription.
func (u *User) Subscribed(now time.Time) bool {
	if !u.SubscriptionActive {
		return false
	}
	if u.SubscriptionEnd != nil && u.SubscriptionEnd.Before(now) {
		return false
	}
	return true
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
