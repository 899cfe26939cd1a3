package models

import (
	"time"
)

// GenerationType is the closed set of generation capabilities the Studio
// offers. Unknown strings are still dispatched (at the default cost) so the
// API surface stays forward-compatible with new client builds.
type GenerationType string

const (
	TextToImage  GenerationType = "text-to-image"
	TextToVideo  GenerationType = "text-to-video"
	ImageToVideo GenerationType = "image-to-video"
	TextToText   GenerationType = "text-to-text"
)

// DefaultCreditCost applies to any type the cost table does not know.
const DefaultCreditCost = 1

var creditCosts = map[GenerationType]int{
	TextToImage:  1,
	TextToVideo:  3,
	ImageToVideo: 2,
	TextToText:   1,
}

// CreditCost returns the credit price of a generation type.
func CreditCost(t GenerationType) int {
	if cost, ok := creditCosts[t]; ok {
		return cost
	}
	return DefaultCreditCost
}

// Generation is one append-only audit row: a completed dispatch and what it
// cost. Rows are never updated or deleted by the service.
type Generation struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Type        GenerationType `json:"type"`
	Prompt      string         `json:"prompt"`
	ResultURL   *string        `json:"result_url,omitempty"`
	ResultText  *string        `json:"result_text,omitempty"`
	CreditsUsed int            `json:"credits_used"`
	CreatedAt   time.Time      `json:"created_at"`
}
