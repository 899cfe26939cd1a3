package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindloom/internal/ledger"
	"mindloom/pkg/api/studio"
	"mindloom/pkg/ctxkeys"
	"mindloom/pkg/llm"
	"mindloom/pkg/logging"
	"mindloom/pkg/middleware"
	"mindloom/pkg/models"
)

const textSystemPrompt = "You are a creative AI assistant. Generate engaging and creative content based on user prompts."

// outcome is the common artifact shape every generator returns.
type outcome struct {
	ImageURL string
	VideoURL string
	Text     string
	Message  string
}

type generatorFunc func(ctx context.Context, req studio.GenerateRequest) (outcome, error)

// generators maps each request type to its handler. Types missing from the
// map fall through to an empty outcome that is still charged and audited.
var generators = map[models.GenerationType]generatorFunc{
	models.TextToImage:  generateImage,
	models.ImageToVideo: generateImageToVideo,
	models.TextToVideo:  generateVideoPlaceholder,
	models.TextToText:   generateText,
}

func generateImage(ctx context.Context, req studio.GenerateRequest) (outcome, error) {
	resp, err := gateway.Complete(ctx, llm.ChatRequest{
		Model:      gatewayCfg.ImageModel,
		Messages:   []llm.Message{llm.TextMessage("user", req.Prompt)},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		return outcome{}, err
	}
	url := resp.FirstImageURL()
	if url == "" {
		return outcome{}, errors.New("gateway returned no image")
	}
	return outcome{ImageURL: url}, nil
}

// generateImageToVideo reuses the image capability with the uploaded frame
// attached. Real video synthesis is not available upstream yet, so the
// produced still is returned as the video artifact with a disclaimer.
func generateImageToVideo(ctx context.Context, req studio.GenerateRequest) (outcome, error) {
	resp, err := gateway.Complete(ctx, llm.ChatRequest{
		Model:      gatewayCfg.ImageModel,
		Messages:   []llm.Message{llm.ImageMessage(req.Prompt, req.ImageData)},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		return outcome{}, err
	}
	url := resp.FirstImageURL()
	if url == "" {
		return outcome{}, errors.New("gateway returned no image")
	}
	return outcome{
		VideoURL: url,
		Message:  "Video generation from image coming soon! Here's an enhanced image instead.",
	}, nil
}

func generateVideoPlaceholder(_ context.Context, _ studio.GenerateRequest) (outcome, error) {
	return outcome{Message: "Video generation coming soon!"}, nil
}

func generateText(ctx context.Context, req studio.GenerateRequest) (outcome, error) {
	resp, err := gateway.Complete(ctx, llm.ChatRequest{
		Model: gatewayCfg.TextModel,
		Messages: []llm.Message{
			llm.TextMessage("system", textSystemPrompt),
			llm.TextMessage("user", req.Prompt),
		},
	})
	if err != nil {
		return outcome{}, err
	}
	text := resp.FirstText()
	if text == "" {
		return outcome{}, errors.New("gateway returned no text")
	}
	return outcome{Text: text}, nil
}

// Generate dispatches one credit-metered generation request.
func Generate(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	userID := c.GetString(string(ctxkeys.KeyUserID))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, studio.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req studio.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, studio.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Prompt == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, studio.ErrorResponse{Error: "Missing required fields"})
		return
	}
	genType := models.GenerationType(req.Type)
	if genType == models.ImageToVideo && req.ImageData == "" {
		c.JSON(http.StatusBadRequest, studio.ErrorResponse{Error: "Image data is required for image-to-video"})
		return
	}

	cost := models.CreditCost(genType)

	balance, err := creditLedger.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, studio.ErrorResponse{Error: "Profile not found"})
			return
		}
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to read credit balance")
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Failed to check credits"})
		return
	}
	if balance < cost {
		metrics.Generations.WithLabelValues(req.Type, "rejected").Inc()
		c.JSON(http.StatusPaymentRequired, studio.ErrorResponse{Error: "Insufficient credits"})
		return
	}

	generate, ok := generators[genType]
	if !ok {
		// Unknown types still consume a credit and leave an audit trail,
		// matching how new client builds probe for capabilities.
		generate = func(context.Context, studio.GenerateRequest) (outcome, error) {
			return outcome{}, nil
		}
	}

	result, err := generate(ctx, req)
	if err != nil {
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"type":    req.Type,
			"error":   err.Error(),
		}).Error("Generation failed")
		metrics.Generations.WithLabelValues(req.Type, "failed").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Generation failed"})
		return
	}

	// The conditional decrement cannot drive the balance negative even when
	// concurrent dispatches passed the pre-check above. A failed debit is
	// logged for reconciliation against the audit log, not surfaced.
	if err := creditLedger.Debit(ctx, userID, cost); err != nil {
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"type":    req.Type,
			"cost":    cost,
			"error":   err.Error(),
		}).Error("Failed to debit credits after generation")
	} else {
		metrics.CreditsSpent.WithLabelValues(req.Type).Add(float64(cost))
	}

	gen := models.Generation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        genType,
		Prompt:      req.Prompt,
		CreditsUsed: cost,
		CreatedAt:   time.Now().UTC(),
	}
	if url := firstNonEmpty(result.ImageURL, result.VideoURL); url != "" {
		gen.ResultURL = &url
	}
	if result.Text != "" {
		gen.ResultText = &result.Text
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO generations (id, user_id, type, prompt, result_url, result_text, credits_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, gen.ID, gen.UserID, gen.Type, gen.Prompt, gen.ResultURL, gen.ResultText, gen.CreditsUsed, gen.CreatedAt); err != nil {
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"type":    req.Type,
			"error":   err.Error(),
		}).Error("Failed to record generation")
	} else {
		historyCache.Push(ctx, &gen)
	}

	metrics.Generations.WithLabelValues(req.Type, "success").Inc()
	metrics.GenerationDuration.WithLabelValues(req.Type).Observe(time.Since(start).Seconds())

	middleware.GetContextLogger(c, logger).WithFields(logging.Fields{
		"user_id":      userID,
		"type":         req.Type,
		"credits_used": cost,
		"duration":     fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
	}).Info("Generation completed")

	c.JSON(http.StatusOK, studio.GenerateResponse{
		ImageURL:    result.ImageURL,
		VideoURL:    result.VideoURL,
		Text:        result.Text,
		Message:     result.Message,
		CreditsUsed: cost,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
