package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// RedisBlacklist records revoked session tokens. Entries expire together with
// the token they revoke; tokens whose expiry cannot be decoded are kept for
// the fallback TTL.
type RedisBlacklist struct {
	client      *redis.Client
	tokens      *TokenManager
	fallbackTTL time.Duration
}

// NewRedisBlacklist builds a blacklist on the shared redis client.
func NewRedisBlacklist(client *redis.Client, tokens *TokenManager, fallbackTTL time.Duration) *RedisBlacklist {
	if fallbackTTL <= 0 {
		fallbackTTL = time.Hour
	}
	return &RedisBlacklist{client: client, tokens: tokens, fallbackTTL: fallbackTTL}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

// Add revokes the token. Revocation is idempotent and accepts tokens that do
// not validate.
func (b *RedisBlacklist) Add(ctx context.Context, token string) error {
	ttl := b.fallbackTTL
	if exp, err := b.tokens.ExpiresAt(token); err == nil {
		if remaining := time.Until(exp); remaining > 0 {
			ttl = remaining
		}
	}
	return b.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// Contains reports whether the token has been revoked.
func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
