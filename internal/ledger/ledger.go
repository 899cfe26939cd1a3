// Package ledger owns the per-user credit balance stored in profiles.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mindloom/pkg/logging"
	"mindloom/pkg/models"
)

var (
	// ErrProfileNotFound is returned when no profile row exists for the user.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInsufficientCredits is returned when a conditional debit finds the
	// balance below the requested amount.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Ledger reads and writes credit balances. All mutations of profiles.credits
// go through here.
type Ledger struct {
	db     *sql.DB
	logger logging.Logger
}

// New creates a Ledger backed by the given database.
func New(db *sql.DB, logger logging.Logger) *Ledger {
	return &Ledger{db: db, logger: logger}
}

// GetBalance returns the user's current credit balance.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (int, error) {
	var credits int
	err := l.db.QueryRowContext(ctx,
		`SELECT credits FROM profiles WHERE user_id = $1`, userID).Scan(&credits)
	if err == sql.ErrNoRows {
		return 0, ErrProfileNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return credits, nil
}

// Debit subtracts amount from the user's balance as a single conditional
// update: the decrement only applies when the current balance covers it, so
// concurrent dispatches for the same user cannot drive the balance negative.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	res, err := l.db.ExecContext(ctx, `
		UPDATE profiles
		SET credits = credits - $1, updated_at = NOW()
		WHERE user_id = $2 AND credits >= $1
	`, amount, userID)
	if err != nil {
		return fmt.Errorf("debit credits: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit credits: %w", err)
	}
	if rows == 0 {
		return ErrInsufficientCredits
	}

	l.logger.WithFields(logging.Fields{
		"user_id": userID,
		"amount":  amount,
	}).Debug("Credits debited")
	return nil
}

// execer lets CreateProfile run inside the signup transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CreateProfile inserts the signup-time profile row with its starting balance.
func (l *Ledger) CreateProfile(ctx context.Context, tx execer, userID string, credits int) error {
	if credits < 0 {
		credits = models.DefaultCredits
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, credits) VALUES ($1, $2)
	`, userID, credits); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
