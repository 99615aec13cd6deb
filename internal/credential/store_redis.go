// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dangkhoa/meshly/internal/platform/constants"
)

// RedisTokenRepository implements [VerificationTokenRepository] on Redis.
//
// Redis owns expiry: tokens are stored with a TTL and vanish on their own,
// so there is no sweeper job to run.
type RedisTokenRepository struct {
	client *redis.Client
}

// NewTokenRepository creates a new Redis-backed verification token store.
func NewTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func verifyTokenKey(token string) string {
	return constants.RedisPrefixVerifyToken + token
}

// Save implements [VerificationTokenRepository].
func (repository *RedisTokenRepository) Save(context context.Context, token string, memberID string, ttl time.Duration) error {
	if err := repository.client.Set(context, verifyTokenKey(token), memberID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_repo_save_failed: %w", err)
	}
	return nil
}

// Consume implements [VerificationTokenRepository]. GETDEL makes the lookup
// and invalidation a single atomic step, so a token can never verify twice.
func (repository *RedisTokenRepository) Consume(context context.Context, token string) (string, error) {
	memberID, err := repository.client.GetDel(context, verifyTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidVerificationToken
		}
		return "", fmt.Errorf("redis_token_repo_consume_failed: %w", err)
	}
	return memberID, nil
}
