package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/DioGolang/GoPOS/pkg/logger"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond int           // token refill rate
	Burst             int           // bucket size
	CleanupInterval   time.Duration // how often idle clients are evicted
	ClientTimeout     time.Duration // idle time before a client is evicted
}

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	config  RateLimiterConfig
}

type bucket struct {
	*rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts the eviction loop; it stops when ctx is done.
func NewRateLimiter(ctx context.Context, conf RateLimiterConfig) *IPRateLimiter {
	l := &IPRateLimiter{
		clients: make(map[string]*bucket),
		config:  conf,
	}
	if conf.CleanupInterval > 0 {
		go l.evictLoop(ctx)
	}
	return l
}

func (l *IPRateLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

func (l *IPRateLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, b := range l.clients {
		if now.Sub(b.lastSeen) > l.config.ClientTimeout {
			delete(l.clients, ip)
		}
	}
}

func (l *IPRateLimiter) bucketFor(ip string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[ip]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.clients[ip] = b
	}
	b.lastSeen = now
	return b
}

// Handler answers 429 once a client's bucket is empty. The refill rate is
// at least one token per second, hence the fixed Retry-After.
func (l *IPRateLimiter) Handler(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			now := time.Now()
			if l.bucketFor(ip, now).AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn(r.Context(), "Rate limit exceeded",
				logger.String("ip", ip),
				logger.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop set by a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
