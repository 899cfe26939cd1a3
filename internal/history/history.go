// Package history keeps a per-user cache of recent generations in Redis so
// the listing endpoint can avoid the database on the hot path. The cache is
// best effort: a nil client or a Redis failure falls back to Postgres.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"mindloom/pkg/logging"
	"mindloom/pkg/models"
)

const (
	keyPrefix  = "studio:history:"
	maxEntries = 100
	entryTTL   = 24 * time.Hour
)

// Store caches recent generation records per user.
type Store struct {
	client *goredis.Client
	logger logging.Logger
}

// New creates a Store. A nil client is allowed and turns every operation
// into a no-op.
func New(client *goredis.Client, logger logging.Logger) *Store {
	return &Store{client: client, logger: logger}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Push prepends a generation record to the user's history list.
func (s *Store) Push(ctx context.Context, gen *models.Generation) {
	if s.client == nil {
		return
	}

	data, err := json.Marshal(gen)
	if err != nil {
		s.logger.WithFields(logging.Fields{
			"user_id": gen.UserID,
			"error":   err.Error(),
		}).Warn("Failed to marshal generation for history cache")
		return
	}

	k := key(gen.UserID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, k, data)
	pipe.LTrim(ctx, k, 0, maxEntries-1)
	pipe.Expire(ctx, k, entryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithFields(logging.Fields{
			"user_id": gen.UserID,
			"error":   err.Error(),
		}).Warn("Failed to cache generation history")
	}
}

// Recent returns up to limit cached generations for the user, newest first.
// A miss or any Redis error returns (nil, false) so the caller can fall back.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]models.Generation, bool) {
	if s.client == nil {
		return nil, false
	}
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	raw, err := s.client.LRange(ctx, key(userID), 0, int64(limit-1)).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	gens := make([]models.Generation, 0, len(raw))
	for _, item := range raw {
		var gen models.Generation
		if err := json.Unmarshal([]byte(item), &gen); err != nil {
			// Stale or corrupt entry, drop the whole cached list.
			s.Invalidate(ctx, userID)
			return nil, false
		}
		gens = append(gens, gen)
	}
	return gens, true
}

// Invalidate removes the user's cached history.
func (s *Store) Invalidate(ctx context.Context, userID string) {
	if s.client == nil {
		return
	}
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		s.logger.WithFields(logging.Fields{
			"user_id": userID,
			"error":   fmt.Sprintf("%v", err),
		}).Warn("Failed to invalidate history cache")
	}
}
