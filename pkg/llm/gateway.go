// Package llm provides a client for the OpenAI-compatible chat-completions
// gateway that backs Mindloom's generation capabilities. The gateway serves
// both plain text completions and image synthesis (via the modalities field),
// so a single Complete call covers every Studio request type.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the completion surface handlers depend on.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Message is one chat turn. Content is either a plain string or a slice of
// ContentPart when an image is attached.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// ImageRef wraps an image URL (https or data URL).
type ImageRef struct {
	URL string `json:"url"`
}

// TextMessage builds a plain text chat turn.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// ImageMessage builds a user turn carrying a prompt plus an attached image.
func ImageMessage(text, imageURL string) Message {
	return Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageRef{URL: imageURL}},
		},
	}
}

// ChatRequest is a single-turn completion request.
type ChatRequest struct {
	Model      string    `json:"model"`
	Messages   []Message `json:"messages"`
	Modalities []string  `json:"modalities,omitempty"`
}

// ChatResponse mirrors the gateway's completion response. Image artifacts come
// back inside the assistant message rather than as a separate endpoint.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message ResponseMessage `json:"message"`
}

type ResponseMessage struct {
	Role    string          `json:"role"`
	Content string          `json:"content"`
	Images  []GeneratedImage `json:"images,omitempty"`
}

type GeneratedImage struct {
	ImageURL ImageRef `json:"image_url"`
}

// FirstText returns the assistant text of the first choice, if any.
func (r *ChatResponse) FirstText() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// FirstImageURL returns the first generated image reference, if any.
func (r *ChatResponse) FirstImageURL() string {
	if len(r.Choices) == 0 || len(r.Choices[0].Message.Images) == 0 {
		return ""
	}
	return r.Choices[0].Message.Images[0].ImageURL.URL
}

// GatewayClient talks to an OpenAI-compatible gateway over HTTP.
type GatewayClient struct {
	client *http.Client
	apiKey string
	apiURL string
}

// NewGatewayClient creates a gateway client from config.
func NewGatewayClient(cfg Config) *GatewayClient {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultGatewayURL
	}
	return &GatewayClient{
		client: &http.Client{Timeout: 120 * time.Second},
		apiKey: cfg.APIKey,
		apiURL: apiURL,
	}
}

// Complete executes one chat-completion round trip. Failures are terminal:
// there is no retry, and callers treat any error as a failed generation.
func (c *GatewayClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		return nil, errors.New("gateway model is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}

	return &chatResp, nil
}
