// Package app wires the bombay server runtime: config, logging, stores,
// HTTP routes and the background session sweeper.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	authapi "bombay/cmd/internal/auth/api"
	"bombay/cmd/internal/auth/session"
	"bombay/cmd/internal/catalog"
	"bombay/cmd/security/password"
	"bombay/cmd/security/token"
)

// App is the bombay server runtime: it owns stores, the session service and
// the HTTP handler chain.
type App struct {
	cfg Config
	log Logger

	stores   *stores
	sessions *session.Service
	reg      *prometheus.Registry
	handler  http.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	hasher, err := ValidateSecurityConfig(cfg)
	if err != nil {
		return nil, err
	}
	pw, err := password.FromEnv()
	if err != nil {
		return nil, err
	}
	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	codec, err := session.NewJWTCodec(sessCfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg, pw, log)
	if err != nil {
		return nil, err
	}
	a, err := build(ctx, cfg, log, st, sessCfg, codec, hasher, pw)
	if err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

func build(
	ctx context.Context,
	cfg Config,
	log Logger,
	st *stores,
	sessCfg session.Config,
	codec session.TokenCodec,
	hasher token.Hasher,
	pw password.Config,
) (*App, error) {
	reg := newRegistry()

	svc, err := session.NewService(sessCfg, st.session, st.users, codec,
		session.WithLogger(log),
		session.WithMetrics(session.NewMetrics(reg)),
		session.WithHasher(hasher),
		session.WithPasswords(pw),
	)
	if err != nil {
		return nil, err
	}

	var auditor authapi.Auditor = authapi.NewLogAuditor(log)
	if st.dbEnabled() {
		pa, err := authapi.NewPostgresAuditor(st.pool, cfg.DBSchema, log)
		if err != nil {
			return nil, err
		}
		auditor = authapi.MultiAuditor{auditor, pa}
	}

	authH, err := authapi.NewHandler(log, svc, authapi.LoadConfigFromEnv(), authapi.WithAuditor(auditor))
	if err != nil {
		return nil, err
	}

	if err := seedDev(ctx, cfg, st, log); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerHTTP(mux, routes{
		cfg:     cfg,
		log:     log,
		stores:  st,
		auth:    authH,
		catalog: catalog.NewHandler(log, st.catalog),
		reg:     reg,
	})

	var h http.Handler = mux
	h = newHTTPMetrics(reg).instrument(h)
	h = WithCORS(h, cfg, log)
	h = WithSecurityHeaders(h)
	h = WithRequestLogging(h, log)
	h = WithRequestID(h)

	return &App{
		cfg:      cfg,
		log:      log,
		stores:   st,
		sessions: svc,
		reg:      reg,
		handler:  h,
	}, nil
}

// Handler returns the full HTTP handler chain.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves HTTP and the periodic sweeper until ctx is cancelled or the
// server fails, then shuts down and releases stores.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"base_url", runtimeBaseURL(a.cfg.HTTPAddr),
		"db_enabled", a.stores.dbEnabled(),
		"session_backend", a.stores.backend,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("server.fail", "err", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		return a.sessions.RunSweeper(gctx, func() time.Time { return time.Now().UTC() })
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("server.stop", "reason", "context_done")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("server.shutdown.fail", "err", err)
			return err
		}
		return nil
	})

	err := g.Wait()
	a.Close()
	a.log.Info("server.stopped")
	return err
}

// Close waits for background sweeps and releases stores.
func (a *App) Close() {
	a.sessions.Wait()
	a.stores.Close()
}

// runtimeBaseURL turns a listen address into a URL a local client can dial.
func runtimeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
