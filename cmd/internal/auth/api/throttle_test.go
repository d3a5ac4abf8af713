package authapi

import (
	"net/http"
	"slices"
	"testing"
	"time"
)

func TestFailureLimiter(t *testing.T) {
	l := newFailureLimiter(3, time.Minute)
	now := t0

	for i := range 3 {
		if blocked, _ := l.blocked("10.0.0.1", now); blocked {
			t.Fatalf("blocked after %d failures", i)
		}
		l.fail("10.0.0.1", now.Add(time.Duration(i)*time.Second))
	}

	blocked, retry := l.blocked("10.0.0.1", now.Add(10*time.Second))
	if !blocked || retry != 50*time.Second {
		t.Fatalf("blocked=%v retry=%v", blocked, retry)
	}
	if blocked, _ := l.blocked("10.0.0.2", now); blocked {
		t.Fatalf("other client blocked")
	}

	// Oldest failure ages out.
	if blocked, _ := l.blocked("10.0.0.1", now.Add(61*time.Second)); blocked {
		t.Fatalf("still blocked after window")
	}

	l.fail("10.0.0.3", now)
	l.reset("10.0.0.3")
	if _, ok := l.fails["10.0.0.3"]; ok {
		t.Fatalf("reset kept entries")
	}
}

func TestFailureLimiter_KeyCap(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		at      []time.Duration
		next    string
		nextAt  time.Duration
		want    []string
		evicted []string
	}{
		{
			name:    "drops oldest live client",
			seed:    []string{"a", "b", "c"},
			at:      []time.Duration{2 * time.Second, time.Second, 3 * time.Second},
			next:    "d",
			nextAt:  4 * time.Second,
			want:    []string{"a", "c", "d"},
			evicted: []string{"b"},
		},
		{
			name:    "prefers expired clients",
			seed:    []string{"a", "b", "c"},
			at:      []time.Duration{0, 90 * time.Second, 100 * time.Second},
			next:    "d",
			nextAt:  110 * time.Second,
			want:    []string{"b", "c", "d"},
			evicted: []string{"a"},
		},
		{
			name:   "known client does not evict",
			seed:   []string{"a", "b", "c"},
			at:     []time.Duration{time.Second, 2 * time.Second, 3 * time.Second},
			next:   "a",
			nextAt: 4 * time.Second,
			want:   []string{"a", "b", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newFailureLimiter(5, time.Minute)
			l.maxKeys = 3
			for i, k := range tt.seed {
				l.fail(k, t0.Add(tt.at[i]))
			}
			l.fail(tt.next, t0.Add(tt.nextAt))

			if len(l.fails) != len(tt.want) {
				t.Fatalf("tracked=%d want %d", len(l.fails), len(tt.want))
			}
			for _, k := range tt.want {
				if _, ok := l.fails[k]; !ok {
					t.Fatalf("missing %q", k)
				}
			}
			for _, k := range tt.evicted {
				if _, ok := l.fails[k]; ok {
					t.Fatalf("%q not evicted", k)
				}
			}
		})
	}
}

func TestFailureLimiter_NilNeverBlocks(t *testing.T) {
	var l *failureLimiter
	l.fail("x", t0)
	l.reset("x")
	if blocked, _ := l.blocked("x", t0); blocked {
		t.Fatalf("nil limiter blocked")
	}
	if newFailureLimiter(0, time.Minute) != nil {
		t.Fatalf("zero max should disable")
	}
}

func TestLogin_ThrottlesRepeatedFailures(t *testing.T) {
	env := newTestEnvWith(t, Config{LoginFailMax: 2, LoginFailWindow: time.Minute})
	bad := `{"username":"jon","password":"wrong password!!"}`

	for range 2 {
		if resp, _ := env.do(t, http.MethodPost, "/login", "", bad); resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status=%d", resp.StatusCode)
		}
	}

	good := `{"username":"jon","password":"` + testPassword + `"}`
	resp, _ := env.do(t, http.MethodPost, "/login", "", good)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "60" {
		t.Fatalf("Retry-After=%q", resp.Header.Get("Retry-After"))
	}
	if !slices.Contains(env.audit.actions(), "auth.login.throttled") {
		t.Fatalf("audit=%v", env.audit.actions())
	}

	env.clock.Set(t0.Add(2 * time.Minute))
	if resp, _ := env.do(t, http.MethodPost, "/login", "", good); resp.StatusCode != http.StatusOK {
		t.Fatalf("after window status=%d", resp.StatusCode)
	}
}
