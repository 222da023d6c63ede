package interaction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Guard is a short-lived lock keyed by one user action. Acquire reports
// false while the key is held. Holders must Release on every exit path; the
// TTL only bounds a holder that died without releasing.
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MemoryGuard 進程內的重複提交防護
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
	done chan struct{}
	stop sync.Once
}

// NewMemoryGuard starts a guard whose keys expire after ttl. Expired keys
// are swept every sweep interval when it is positive.
func NewMemoryGuard(ttl, sweep time.Duration) *MemoryGuard {
	g := &MemoryGuard{
		held: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
		done: make(chan struct{}),
	}
	if sweep > 0 {
		go g.sweepLoop(sweep)
	}
	return g
}

// Acquire 取得鎖
func (g *MemoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if at, ok := g.held[key]; ok && now.Sub(at) < g.ttl {
		return false, nil
	}
	g.held[key] = now
	return true, nil
}

// Release 釋放鎖
func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
	return nil
}

// Held reports whether key is currently held.
func (g *MemoryGuard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.held[key]
	return ok && g.now().Sub(at) < g.ttl
}

// Close stops the sweeper.
func (g *MemoryGuard) Close() {
	g.stop.Do(func() { close(g.done) })
}

func (g *MemoryGuard) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.done:
			return
		}
	}
}

func (g *MemoryGuard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for k, at := range g.held {
		if now.Sub(at) >= g.ttl {
			delete(g.held, k)
		}
	}
}

// RedisGuard shares the guard between instances with SETNX.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard 創建 Redis 防護
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// Acquire 取得鎖
func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.redisKey(key), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire guard: %w", err)
	}
	return ok, nil
}

// Release 釋放鎖
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("release guard: %w", err)
	}
	return nil
}

func (g *RedisGuard) redisKey(key string) string {
	return "recipes:guard:" + key
}
