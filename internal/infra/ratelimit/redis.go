package ratelimit

import (
	"context"
	"time"

	"booking-engine/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

// Counters start their window on the first hit.
var incrWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisGuard shares the blocklist and submission counters between replicas.
type RedisGuard struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisGuard(client redis.UniversalClient, prefix string) *RedisGuard {
	return &RedisGuard{client: client, prefix: prefix}
}

func (g *RedisGuard) blockKey(ip string) string { return g.prefix + "blocked:" + ip }
func (g *RedisGuard) countKey(ip string) string { return g.prefix + "submissions:" + ip }

func (g *RedisGuard) IsBlocked(ctx context.Context, ip string) (bool, error) {
	n, err := g.client.Exists(ctx, g.blockKey(ip)).Result()
	if err != nil {
		return false, errs.Wrap(err, "check ip blocklist")
	}
	return n > 0, nil
}

func (g *RedisGuard) Block(ctx context.Context, ip string, ttl time.Duration) error {
	if err := g.client.Set(ctx, g.blockKey(ip), "1", ttl).Err(); err != nil {
		return errs.Wrap(err, "block ip")
	}
	return nil
}

func (g *RedisGuard) Allow(ctx context.Context, ip string, limit int64, window time.Duration) (bool, error) {
	n, err := incrWindow.Run(ctx, g.client, []string{g.countKey(ip)}, window.Milliseconds()).Int64()
	if err != nil {
		return false, errs.Wrap(err, "count submission")
	}
	return n <= limit, nil
}
