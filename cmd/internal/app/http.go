package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	authapi "bombay/cmd/internal/auth/api"
	"bombay/cmd/internal/catalog"
)

type routes struct {
	cfg     Config
	log     Logger
	stores  *stores
	auth    *authapi.Handler
	catalog *catalog.Handler
	reg     *prometheus.Registry
}

func registerHTTP(mux *http.ServeMux, rt routes) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if rt.cfg.ReadinessRequireDB && !rt.stores.dbEnabled() {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		if rt.stores.dbEnabled() {
			if err := PingDB(r.Context(), rt.stores.pool, 2*time.Second); err != nil {
				rt.log.Warn("readyz.db.not_ready", "err", err)
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		if rt.stores.redis != nil {
			if err := rt.stores.redis.Ping(r.Context()).Err(); err != nil {
				rt.log.Warn("readyz.redis.not_ready", "err", err)
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if rt.cfg.MetricsEnabled && rt.reg != nil {
		mux.Handle("GET /metrics", metricsHandler(rt.reg))
	}

	rt.auth.Register(mux)
	rt.catalog.Register(mux, rt.auth.RequireLogin)
}
