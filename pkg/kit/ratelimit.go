package kit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// IPRateLimiter allows at most limit requests per client IP within a sliding
// window. The client IP is taken from RemoteAddr only; put chi's RealIP in
// front of it when running behind a trusted proxy. Idle IPs expire after one
// window.
type IPRateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   *ttlcache.Cache[string, []time.Time]
	now    func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limit:  limit,
		window: window,
		hits: ttlcache.New[string, []time.Time](
			ttlcache.WithTTL[string, []time.Time](window),
			ttlcache.WithDisableTouchOnHit[string, []time.Time](),
		),
		now: time.Now,
	}
}

// Tracked reports how many client IPs currently hold a window.
func (l *IPRateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits.DeleteExpired()
	return l.hits.Len()
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		now := l.now()
		if l.recordAndCheck(clientIP(r), now, now.Add(-l.window)) {
			w.Header().Set("Retry-After", retryAfter(l.window))
			WriteError(w, r, http.StatusTooManyRequests, CodeRateLimited, "too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) recordAndCheck(ip string, now, cutoff time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hits.DeleteExpired()

	var ts []time.Time
	if item := l.hits.Get(ip); item != nil {
		ts = prune(item.Value(), cutoff)
	}
	if len(ts) >= l.limit {
		l.hits.Set(ip, ts, ttlcache.DefaultTTL)
		return true
	}

	l.hits.Set(ip, append(ts, now), ttlcache.DefaultTTL)
	return false
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	n := 0
	for _, t := range ts {
		if t.After(cutoff) {
			ts[n] = t
			n++
		}
	}
	return ts[:n]
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
