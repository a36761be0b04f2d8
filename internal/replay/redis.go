package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/playback-token-service/internal/token"
)

const redisKeyPrefix = "playback:consumed:"

// RedisStore is the single-use policy backed by Redis, for deployments with
// more than one service replica. SET NX is a single atomic step on the
// server, so the exactly-one-success guarantee holds across processes.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore builds a Redis-backed consumption table.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Consume marks the claim's nonce consumed, failing with
// token.ErrReplayedToken if it already was. The entry expires with the
// claim, so Redis garbage-collects it for free.
func (s *RedisStore) Consume(ctx context.Context, claim token.PlaybackClaim) error {
	ttl := time.Unix(claim.ExpiresAt, 0).Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}

	set, err := s.client.SetNX(ctx, redisKeyPrefix+claimKey(claim), 1, ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		return token.ErrReplayedToken
	}
	return nil
}
