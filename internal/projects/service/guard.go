package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TurnGuard admits at most one generation per key. A busy key is rejected, never queued.
type TurnGuard interface {
	TryAcquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

type MemoryGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{busy: make(map[string]struct{})}
}

func (g *MemoryGuard) TryAcquire(_ context.Context, key string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.busy[key]; taken {
		return nil, false, nil
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true, nil
}

const turnKeyPrefix = "avan:turn:" // avan:turn:{uid}/{project_id}

// Only the holder may delete its lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisGuard shares the slot across instances. The lease TTL only exists so a
// crashed instance cannot hold a project forever.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, turnKeyPrefix+key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire turn lease: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be done
			_ = releaseScript.Run(context.Background(), g.client, []string{turnKeyPrefix + key}, token).Err()
		})
	}, true, nil
}
