// AngelaMos | 2026
// blacklist.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "auth:blacklist:"

// Blacklist stores revoked token JTIs in redis with a TTL matching the
// token lifetime, so entries expire on their own.
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

func (b *Blacklist) Revoke(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	key := blacklistKeyPrefix + jti

	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *Blacklist) IsRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	key := blacklistKeyPrefix + jti

	if err := b.client.Get(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return true, nil
}
