package authapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// maxThrottleKeys caps tracked clients. At the cap expired keys are pruned
// first, then the clients whose last failure is oldest are dropped.
const maxThrottleKeys = 10000

// failureLimiter counts failed logins per client in a sliding window. A nil
// limiter never blocks.
type failureLimiter struct {
	mu      sync.Mutex
	max     int
	maxKeys int
	window  time.Duration
	fails   map[string][]time.Time
}

func newFailureLimiter(maxFails int, window time.Duration) *failureLimiter {
	if maxFails <= 0 || window <= 0 {
		return nil
	}
	return &failureLimiter{max: maxFails, maxKeys: maxThrottleKeys, window: window, fails: make(map[string][]time.Time)}
}

func (l *failureLimiter) prune(key string, now time.Time) []time.Time {
	cut := now.Add(-l.window)
	events := l.fails[key]
	dst := events[:0]
	for _, t := range events {
		if t.After(cut) {
			dst = append(dst, t)
		}
	}
	if len(dst) == 0 {
		delete(l.fails, key)
		return nil
	}
	l.fails[key] = dst
	return dst
}

// blocked reports whether key is over the limit and for how long.
func (l *failureLimiter) blocked(key string, now time.Time) (bool, time.Duration) {
	if l == nil || key == "" {
		return false, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	events := l.prune(key, now)
	if len(events) < l.max {
		return false, 0
	}
	return true, events[0].Add(l.window).Sub(now)
}

func (l *failureLimiter) fail(key string, now time.Time) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	events := l.prune(key, now)
	if events == nil && len(l.fails) >= l.maxKeys {
		for k := range l.fails {
			l.prune(k, now)
		}
		for len(l.fails) > 0 && len(l.fails) >= l.maxKeys {
			l.evictOldest()
		}
	}
	l.fails[key] = append(events, now)
}

// evictOldest drops the client whose most recent failure is oldest.
func (l *failureLimiter) evictOldest() {
	var (
		victim string
		last   time.Time
	)
	for k, events := range l.fails {
		if t := events[len(events)-1]; victim == "" || t.Before(last) {
			victim, last = k, t
		}
	}
	delete(l.fails, victim)
}

func (l *failureLimiter) reset(key string) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	delete(l.fails, key)
	l.mu.Unlock()
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		secs := int64((retryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	writeError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
}
