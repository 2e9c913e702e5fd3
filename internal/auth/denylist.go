package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:"

// Denylist tracks revoked session tokens until their natural expiry so that
// logout invalidates a token immediately instead of waiting for it to age out.
type Denylist struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDenylist creates a Redis-backed token denylist. Revoked entries live for
// ttl, which should match the token lifetime.
func NewDenylist(client *redis.Client, ttl time.Duration) *Denylist {
	return &Denylist{client: client, ttl: ttl}
}

// Revoke records a token as invalidated.
func (d *Denylist) Revoke(ctx context.Context, token string) error {
	if d == nil || d.client == nil {
		return nil
	}
	ttl := d.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := d.client.Set(ctx, denylistPrefix+tokenKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token has been invalidated. A nil denylist or
// an unreachable Redis treats every token as still valid; revocation is a
// best-effort hardening layer on top of expiry.
func (d *Denylist) IsRevoked(ctx context.Context, token string) bool {
	if d == nil || d.client == nil {
		return false
	}
	n, err := d.client.Exists(ctx, denylistPrefix+tokenKey(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// tokenKey digests the token so raw JWTs never land in Redis.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
