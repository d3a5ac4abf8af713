package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMux(t *testing.T, gate func(http.Handler) http.Handler) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), seedMemory(t)).Register(mux, gate)
	return mux
}

func passGate(next http.Handler) http.Handler { return next }

func denyGate(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

func TestBootstrapIsPublic(t *testing.T) {
	mux := newTestMux(t, denyGate)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bootstrap", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		KeySignatures []string `json:"keySignatures"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.KeySignatures) != 34 {
		t.Fatalf("keySignatures = %d", len(body.KeySignatures))
	}
}

func TestCatalogRoutesAreGated(t *testing.T) {
	mux := newTestMux(t, denyGate)
	for _, path := range []string{"/artist", "/artist/1", "/song", "/song/1"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s status = %d, want 403", path, rr.Code)
		}
	}
}

func TestCatalogReads(t *testing.T) {
	mux := newTestMux(t, passGate)

	cases := []struct {
		path   string
		status int
	}{
		{"/artist", http.StatusOK},
		{"/artist?limit=2&offset=1", http.StatusOK},
		{"/artist?limit=x", http.StatusBadRequest},
		{"/artist/Bill%20Evans", http.StatusOK},
		{"/artist/3", http.StatusOK},
		{"/artist/unknown", http.StatusNotFound},
		{"/song", http.StatusOK},
		{"/song/2", http.StatusOK},
		{"/song/abc", http.StatusNotFound},
		{"/song/99", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s status = %d, want %d (body %s)", tc.path, rr.Code, tc.status, rr.Body.String())
		}
	}
}

func TestListArtistsBody(t *testing.T) {
	mux := newTestMux(t, passGate)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/artist?limit=2", nil))
	var body struct {
		Data  []Artist `json:"data"`
		Limit int      `json:"limit"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Limit != 2 || len(body.Data) != 2 || body.Data[0].Name != "42" || body.Data[1].Name != "Bill Evans" {
		t.Fatalf("body = %+v", body)
	}
}
