// Package cache holds the Redis-backed ranking cache.
//
// Ranking scans every user, so repeated /predict calls from one client are
// the expensive hot path. Results are cached per user with a short TTL and
// dropped whenever the user's graph edges change; a cache miss or a Redis
// outage just means recomputing, never a failed request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BhattAnsh/KnowZ/internal/models"
)

const rankTTL = 60 * time.Second

type RankCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRankCache connects to Redis from a REDIS_URL-style string.
func NewRankCache(redisURL string, logger *zap.Logger) (*RankCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RankCache{client: redis.NewClient(opts), logger: logger}, nil
}

func rankKey(userID uuid.UUID) string {
	return "rank:" + userID.String()
}

// Get returns the cached ranking for a user, or ok=false on miss.
// Redis errors count as misses.
func (c *RankCache) Get(ctx context.Context, userID uuid.UUID) ([]models.CandidateMatch, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, rankKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("rank cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var matches []models.CandidateMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		c.logger.Warn("rank cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return matches, true
}

// Set stores a ranking. Failures are logged and ignored.
func (c *RankCache) Set(ctx context.Context, userID uuid.UUID, matches []models.CandidateMatch) {
	if c == nil {
		return
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, rankKey(userID), data, rankTTL).Err(); err != nil {
		c.logger.Warn("rank cache write failed", zap.Error(err))
	}
}

// Invalidate drops cached rankings for the given users. Called after any
// skill/goal mutation: the user's own ranking is stale, and since scoring
// is symmetric in data, everyone else's entry expires on its own short TTL.
func (c *RankCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if c == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = rankKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("rank cache invalidation failed", zap.Error(err))
	}
}

func (c *RankCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
