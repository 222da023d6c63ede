package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pasarde/recipe-app/internal/infrastructure/config"
	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrMiss is returned by Store.Get when nothing usable is cached.
var ErrMiss = errors.New("cache miss")

// Store memoises provider responses by namespace and key.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
}

// CacheManager 記憶體緩存管理器
type CacheManager struct {
	maxSize int
	ttl     time.Duration
	mu      sync.Mutex
	store   map[string]cacheEntry
	stats   cacheStats
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建新的緩存管理器，並啟動過期清理協程
func NewManager(cfg config.CacheConfig) *CacheManager {
	m := &CacheManager{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		store:   make(map[string]cacheEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go m.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("cache manager initialised",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, namespace, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.generateKey(namespace, key)
	entry, exists := m.store[k]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss(namespace, key)
		return "", ErrMiss
	}

	if m.now().After(entry.expiresAt) {
		delete(m.store, k)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss(namespace, key)
		return "", ErrMiss
	}

	entry.lastAccess = m.now()
	entry.accessCount++
	m.store[k] = entry
	m.stats.hits++
	common.LogCacheHit(namespace, key)
	return entry.value, nil
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.generateKey(namespace, key)
	if _, exists := m.store[k]; !exists && len(m.store) >= m.maxSize {
		m.cleanup()
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}
		if len(m.store) >= m.maxSize {
			m.stats.errors++
			return fmt.Errorf("cache full (%d entries)", len(m.store))
		}
	}

	now := m.now()
	m.store[k] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.ttl),
		createdAt:  now,
		lastAccess: now,
	}
	return nil
}

// generateKey 生成緩存鍵
func (m *CacheManager) generateKey(namespace, key string) string {
	return namespace + ":" + hashString(key)
}

// hashString 計算字符串的 SHA-256 哈希值
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

func (m *CacheManager) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的緩存，呼叫者需持有鎖
func (m *CacheManager) cleanup() int {
	now := m.now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰最少使用的項目
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)
	common.LogInfo("cache manager closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}
