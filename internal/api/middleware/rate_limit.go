package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.allowAt(time.Now())
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now
	if elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idle reports whether the bucket has been full for at least d.
func (rl *RateLimiter) idle(now time.Time, d time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return now.Sub(rl.lastTime) >= d
}

// ClientLimiter keeps one token bucket per client IP.
type ClientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*RateLimiter
	requests int
	window   time.Duration
	now      func() time.Time
}

// NewClientLimiter 創建每個 IP 一個令牌桶的限流器
func NewClientLimiter(requests int, window time.Duration) *ClientLimiter {
	return &ClientLimiter{
		clients:  make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow consumes one token from the bucket of ip.
func (cl *ClientLimiter) Allow(ip string) bool {
	now := cl.now()

	cl.mu.Lock()
	rl, ok := cl.clients[ip]
	if !ok {
		if len(cl.clients) >= maxTrackedClients {
			cl.evictIdle(now)
		}
		rl = NewRateLimiter(cl.requests, cl.window)
		rl.lastTime = now
		cl.clients[ip] = rl
	}
	cl.mu.Unlock()

	return rl.allowAt(now)
}

const maxTrackedClients = 10000

// evictIdle drops buckets untouched for a whole window. Caller holds cl.mu.
func (cl *ClientLimiter) evictIdle(now time.Time) {
	for ip, rl := range cl.clients {
		if rl.idle(now, cl.window) {
			delete(cl.clients, ip)
		}
	}
}

// RateLimit 每個用戶端 IP 的限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewClientLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogWarn("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "Too many requests",
			})
			return
		}

		c.Next()
	}
}
