package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindloom/pkg/api/studio"
	"mindloom/pkg/auth"
	"mindloom/pkg/logging"
	"mindloom/pkg/models"
)

// Register creates a new account and its credit profile in one transaction.
func Register(c *gin.Context) {
	start := time.Now()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthOperations.WithLabelValues("register", "invalid").Inc()
		c.JSON(http.StatusBadRequest, studio.ErrorResponse{Error: "Invalid email or password"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := db.QueryRowContext(c.Request.Context(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to check existing user")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}
	if exists {
		metrics.AuthOperations.WithLabelValues("register", "duplicate").Inc()
		c.JSON(http.StatusConflict, studio.ErrorResponse{Error: "Email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to hash password")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}

	userID := uuid.NewString()
	tx, err := db.BeginTx(c.Request.Context(), nil)
	if err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to begin registration transaction")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(c.Request.Context(),
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		userID, email, hash); err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to insert user")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}
	if err := creditLedger.CreateProfile(c.Request.Context(), tx, userID, models.DefaultCredits); err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to create profile")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}
	if err := tx.Commit(); err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to commit registration")
		metrics.AuthOperations.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Registration failed"})
		return
	}

	logger.WithFields(logging.Fields{
		"user_id": userID,
		"email":   email,
	}).Info("User registered")
	metrics.AuthOperations.WithLabelValues("register", "success").Inc()
	metrics.AuthDuration.WithLabelValues("register").Observe(time.Since(start).Seconds())

	c.JSON(http.StatusCreated, studio.RegisterResponse{
		Success: true,
		Message: "Account created",
	})
}

// Login verifies credentials and issues a session token.
func Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthOperations.WithLabelValues("login", "invalid").Inc()
		c.JSON(http.StatusBadRequest, studio.ErrorResponse{Error: "Invalid email or password"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := db.QueryRowContext(c.Request.Context(),
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		metrics.AuthOperations.WithLabelValues("login", "denied").Inc()
		c.JSON(http.StatusUnauthorized, studio.ErrorResponse{Error: "Invalid credentials"})
		return
	}
	if err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to load user")
		metrics.AuthOperations.WithLabelValues("login", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Login failed"})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthOperations.WithLabelValues("login", "denied").Inc()
		c.JSON(http.StatusUnauthorized, studio.ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, jwtSecret)
	if err != nil {
		logger.WithFields(logging.Fields{"error": err.Error()}).Error("Failed to generate token")
		metrics.AuthOperations.WithLabelValues("login", "error").Inc()
		c.JSON(http.StatusInternalServerError, studio.ErrorResponse{Error: "Login failed"})
		return
	}

	logger.WithFields(logging.Fields{"user_id": user.ID}).Info("User logged in")
	metrics.AuthOperations.WithLabelValues("login", "success").Inc()
	metrics.AuthDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, studio.AuthResponse{
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
	})
}
