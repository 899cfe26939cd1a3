package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mindloom/internal/ledger"
	"mindloom/pkg/api/studio"
	"mindloom/pkg/ctxkeys"
	"mindloom/pkg/logging"
	"mindloom/pkg/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GetCredits returns the caller's current credit balance.
func GetCredits(c *gin.Context) {
	userID := c.GetString(string(ctxkeys.KeyUserID))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, studio.ErrorResponse{Error: "Unauthorized"})
		return
	}

	balance, err := creditLedger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if err == ledger.ErrProfileNotFound {
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

	c.JSON(http.StatusOK, studio.CreditsResponse{Credits: balance})
}

// ListGenerations returns the caller's recent generation records, newest
// first. Served from the Redis history cache when possible.
func ListGenerations(c *gin.Context) {
	userID := c.GetString(string(ctxkeys.KeyUserID))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, studio.ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if cached, ok := historyCache.Recent(c.Request.Context(), userID, limit); ok {
		c.JSON(http.StatusOK, studio.GenerationsResponse{
			Generations: cached,
			Count:       len(cached),
		})
		return
	}

	rows, err := db.QueryContext(c.Request.Context(), `
		SELECT id, user_id, type, prompt, result_url, result_text, credits_used, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to list generations")
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Failed to load generations"})
		return
	}
	defer rows.Close()

	gens := []models.Generation{}
	for rows.Next() {
		var gen models.Generation
		if err := rows.Scan(&gen.ID, &gen.UserID, &gen.Type, &gen.Prompt,
			&gen.ResultURL, &gen.ResultText, &gen.CreditsUsed, &gen.CreatedAt); err != nil {
			logger.WithFields(logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to scan generation row")
			c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Failed to load generations"})
			return
		}
		gens = append(gens, gen)
	}
	if err := rows.Err(); err != nil {
		logger.WithFields(logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to iterate generation rows")
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Failed to load generations"})
		return
	}

	c.JSON(http.StatusOK, studio.GenerationsResponse{
		Generations: gens,
		Count:       len(gens),
	})
}
