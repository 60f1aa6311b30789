package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arashpm/user-service/pkg/database"
)

// Floor for revocation entries so a token on the edge of expiry still
// lands in the registry despite clock skew between nodes.
const minRevocationTTL = time.Minute

// RedisRevocationRegistry records revoked refresh token identifiers in
// Redis. Entries expire on their own once the token they reference would
// have expired anyway.
type RedisRevocationRegistry struct {
	redis *database.Redis
}

// NewRedisRevocationRegistry creates a Redis-backed revocation registry
func NewRedisRevocationRegistry(redis *database.Redis) *RedisRevocationRegistry {
	return &RedisRevocationRegistry{redis: redis}
}

var _ RevocationRegistry = (*RedisRevocationRegistry)(nil)

// Revoke marks a token identifier as permanently unusable. Revoking an
// already-revoked identifier is a no-op.
func (s *RedisRevocationRegistry) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}

	key := revocationKey(tokenID)
	if err := s.redis.Client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token identifier has been revoked
func (s *RedisRevocationRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := s.redis.Client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return exists > 0, nil
}

func revocationKey(tokenID string) string {
	return fmt.Sprintf("revoked:jti:%s", tokenID)
}
