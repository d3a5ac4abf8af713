package authapi

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"bombay/cmd/internal/auth/session"
)

// Handler wires HTTP auth endpoints to the session service.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	sessions *session.Service
	audit    Auditor
	throttle *failureLimiter
	now      func() time.Time
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handler)

// WithAuditor overrides the default slog-only auditor.
func WithAuditor(a Auditor) HandlerOption {
	return func(h *Handler) {
		if a != nil {
			h.audit = a
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, sessions *session.Service, cfg Config, opts ...HandlerOption) (*Handler, error) {
	if sessions == nil {
		return nil, errors.New("authapi: nil session service")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		throttle: newFailureLimiter(cfg.LoginFailMax, cfg.LoginFailWindow),
		now:      func() time.Time { return time.Now().UTC() },
	}
	h.audit = NewLogAuditor(log)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.doLogin(w, r)
	case http.MethodGet:
		h.checkLogin(w, r)
	case http.MethodPut:
		h.refreshLogin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// doLogin answers with the bare signed token as text.
func (h *Handler) doLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	ctx := r.Context()
	now := h.now()
	client := ""
	if ip := clientIP(r, h.cfg.TrustProxy); ip != nil {
		client = ip.String()
	}
	if limited, retry := h.throttle.blocked(client, now); limited {
		h.record(r, Event{Action: "auth.login.throttled"})
		writeRateLimited(w, retry)
		return
	}

	issued, err := h.sessions.Login(ctx, username, req.Password, now)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			h.throttle.fail(client, now)
		}
		h.record(r, Event{Action: "auth.login.fail", Detail: session.CodeOf(err)})
		if session.StatusOf(err) >= 500 {
			h.log.ErrorContext(ctx, "auth.login.fail", "err", err)
		}
		writeText(w, session.StatusOf(err), session.MessageOf(err))
		return
	}

	h.throttle.reset(client)
	h.record(r, Event{Action: "auth.login.success", UserID: &issued.User.ID, SessionID: &issued.SessionID})
	writeText(w, http.StatusOK, issued.Token)
}

// checkLogin always answers 200; failures are reported in the body.
func (h *Handler) checkLogin(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.IsLoggedIn(r.Context(), session.TokenFromRequest(r), h.now())
	if err != nil {
		writeJSON(w, http.StatusOK, statusResponse{LoggedIn: false, Message: session.MessageOf(err)})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{LoggedIn: true, Token: res.Token})
}

func (h *Handler) refreshLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issued, err := h.sessions.RefreshToken(ctx, session.TokenFromRequest(r), h.now())
	if err != nil {
		h.record(r, Event{Action: "auth.refresh.fail", Detail: session.CodeOf(err)})
		if session.StatusOf(err) >= 500 {
			h.log.ErrorContext(ctx, "auth.refresh.fail", "err", err)
		}
		writeSessionError(w, err)
		return
	}

	h.record(r, Event{Action: "auth.refresh.success", UserID: &issued.User.ID, SessionID: &issued.SessionID})
	writeJSON(w, http.StatusOK, statusResponse{LoggedIn: true, Token: issued.Token})
}

// handleLogout always answers 200, including for callers without a session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	res, err := h.sessions.Logout(ctx, session.TokenFromRequest(r), h.now())
	if err != nil {
		h.log.ErrorContext(ctx, "auth.logout.fail", "err", err)
	}
	if res.LoggedIn {
		h.record(r, Event{Action: "auth.logout", UserID: &res.User.ID, SessionID: &res.Session.ID})
	}
	writeJSON(w, http.StatusOK, statusResponse{LoggedIn: false})
}

// ---- helpers ----

func (h *Handler) record(r *http.Request, ev Event) {
	ev.At = h.now()
	if ip := clientIP(r, h.cfg.TrustProxy); ip != nil {
		ev.IP = ip.String()
	}
	ev.UserAgent = strings.TrimSpace(r.UserAgent())
	ev.RequestID = r.Header.Get("X-Request-ID")
	h.audit.Record(r.Context(), ev)
}

func clientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for p := range strings.SplitSeq(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
