// internal/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of consulting one limit key
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter int
	ResetAt    time.Time
}

// Store is the sorted-set backend the sliding window runs on
type Store interface {
	// Take trims the window, counts it, and admits the request if the
	// cap is not reached. The insert happens only on the allow path, so
	// two concurrent admissions under the cap may both land; that small
	// over-admission is tolerated.
	Take(ctx context.Context, key string, limit Limit, now time.Time) (Result, error)
}

// RedisStore implements the sliding window over Redis sorted sets
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a store over an existing Redis client
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Take runs the pipelined trim + count, then either rejects with a
// retry hint derived from the oldest surviving entry, or records the
// request and refreshes the key TTL.
func (s *RedisStore) Take(ctx context.Context, key string, limit Limit, now time.Time) (Result, error) {
	nowSec := float64(now.UnixNano()) / float64(time.Second)
	windowSec := limit.Window.Seconds()
	windowStart := nowSec - windowSec

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%f", windowStart))
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("trim window %s: %w", key, err)
	}

	count := int(card.Val())
	if count >= limit.Cap {
		entries, err := s.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil {
			return Result{}, fmt.Errorf("read oldest entry %s: %w", key, err)
		}
		retryAfter := 1
		resetAt := now.Add(limit.Window)
		if len(entries) > 0 {
			oldest := entries[0].Score
			retryAfter = int(oldest+windowSec-nowSec) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			resetAt = time.Unix(int64(oldest+windowSec)+1, 0).UTC()
		}
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: retryAfter,
			ResetAt:    resetAt,
		}, nil
	}

	member := strconv.FormatFloat(nowSec, 'f', 9, 64)
	pipe = s.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: nowSec, Member: member})
	pipe.Expire(ctx, key, limit.Window+60*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("record request %s: %w", key, err)
	}

	return Result{
		Allowed:   true,
		Remaining: limit.Cap - count - 1,
		ResetAt:   now.Add(limit.Window).UTC(),
	}, nil
}
