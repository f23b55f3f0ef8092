package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorSweepEvery = time.Minute
	visitorIdleAfter  = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newVisitorSet(perMinute int) *visitorSet {
	return &visitorSet{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (s *visitorSet) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (s *visitorSet) evict(idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range s.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(s.visitors, key)
		}
	}
}

func (s *visitorSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// sweep evicts idle visitors every interval until ctx is done.
func (s *visitorSet) sweep(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evict(idle)
		}
	}
}

// RateLimiter allows perMinute requests per client IP with a burst of the
// same size. Idle visitors are evicted until ctx is cancelled.
func RateLimiter(ctx context.Context, perMinute int) gin.HandlerFunc {
	visitors := newVisitorSet(perMinute)
	go visitors.sweep(ctx, visitorSweepEvery, visitorIdleAfter)

	return func(c *gin.Context) {
		if !visitors.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
			return
		}

		c.Next()
	}
}
