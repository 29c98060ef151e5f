package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ReplayGuard implements ports.ReplayGuard using Redis SET NX. It is the
// fast-path layer against replayed capture callbacks; the transaction
// store's duplicate-reference check remains authoritative.
type ReplayGuard struct {
	client *goredis.Client
	prefix string
}

// NewReplayGuard creates a Redis-backed replay guard.
func NewReplayGuard(client *goredis.Client) *ReplayGuard {
	return &ReplayGuard{
		client: client,
		prefix: "settlement_ref:",
	}
}

// CheckAndSet atomically records the external reference if unseen.
// Returns true if the reference is new, false if already recorded.
func (g *ReplayGuard) CheckAndSet(ctx context.Context, externalReference string, ttl time.Duration) (bool, error) {
	key := g.prefix + externalReference
	result, err := g.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — reference was already settled
			return false, nil
		}
		return false, fmt.Errorf("redis replay check: %w", err)
	}
	return result == "OK", nil
}

// Remove forgets a reference so a retried capture is not falsely rejected.
func (g *ReplayGuard) Remove(ctx context.Context, externalReference string) error {
	if err := g.client.Del(ctx, g.prefix+externalReference).Err(); err != nil {
		return fmt.Errorf("redis replay remove: %w", err)
	}
	return nil
}
