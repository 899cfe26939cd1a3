// Package studio defines the request and response shapes of the Studio API.
package studio

import (
	"time"

	"mindloom/pkg/models"
)

// GenerateRequest is the dispatch payload submitted by the Studio page.
// ImageData is a data-URL-encoded image, required only for image-to-video.
type GenerateRequest struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt"`
	ImageData string `json:"imageData,omitempty"`
}

// GenerateResponse carries the produced artifact reference and the credits
// charged for it. Exactly one artifact field is set per request type.
type GenerateResponse struct {
	ImageURL    string `json:"imageUrl,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Text        string `json:"text,omitempty"`
	Message     string `json:"message,omitempty"`
	CreditsUsed int    `json:"creditsUsed"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterResponse confirms account creation
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse carries a session token after login
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// CreditsResponse reports the caller's current balance
type CreditsResponse struct {
	Credits int `json:"credits"`
}

// GenerationsResponse lists recent audit records, newest first
type GenerationsResponse struct {
	Generations []models.Generation `json:"generations"`
	Count       int                 `json:"count"`
}
