package models

import (
	"time"
)

// User represents a Mindloom account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password material
	CreatedAt    time.Time `json:"created_at"`
}

// Profile carries the per-user credit balance. Created at signup with the
// default balance; credits is the only column this service mutates.
type Profile struct {
	UserID    string    `json:"user_id"`
	Credits   int       `json:"credits"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultCredits is the balance granted to a newly registered account.
const DefaultCredits = 10

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
