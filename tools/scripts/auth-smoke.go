// Package main provides a CI-friendly smoke test for bombay's session API.
//
// It validates:
//   - public bootstrap data
//   - login issues a token and GET /login sees it
//   - gated catalog reads accept the token
//   - refresh rotates the token and the old one stops working
//   - logout ends the session
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type status struct {
	LoggedIn bool   `json:"loggedIn"`
	Token    string `json:"token"`
	Message  string `json:"message"`
}

type smoke struct {
	base    string
	client  *http.Client
	timeout time.Duration
	verbose bool
}

func main() {
	var (
		baseURL = flag.String("url", "http://127.0.0.1:8080", "server base URL")
		user    = flag.String("user", os.Getenv("BOMBAY_DEV_USER"), "login name")
		pass    = flag.String("password", os.Getenv("BOMBAY_DEV_PASSWORD"), "password")
		timeout = flag.Duration("timeout", 5*time.Second, "per-step timeout")
		verbose = flag.Bool("v", false, "verbose output")
	)
	flag.Parse()

	u, err := url.Parse(*baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fatalf("invalid -url %q", *baseURL)
	}
	if *user == "" || *pass == "" {
		fatalf("-user and -password are required (or BOMBAY_DEV_USER / BOMBAY_DEV_PASSWORD)")
	}

	s := &smoke{
		base:    strings.TrimRight(u.String(), "/"),
		client:  &http.Client{},
		timeout: *timeout,
		verbose: *verbose,
	}

	var boot struct {
		KeySignatures []string `json:"keySignatures"`
	}
	s.expectJSON(http.MethodGet, "/bootstrap", "", "", http.StatusOK, &boot)
	if len(boot.KeySignatures) == 0 {
		fatalf("bootstrap: no key signatures")
	}

	creds, _ := json.Marshal(map[string]string{"username": *user, "password": *pass})
	code, body := s.do(http.MethodPost, "/login", string(creds), "")
	if code != http.StatusOK {
		fatalf("login: status %d: %s", code, body)
	}
	tok := strings.TrimSpace(body)
	s.logf("login ok (%d byte token)", len(tok))

	var st status
	s.expectJSON(http.MethodGet, "/login", "", tok, http.StatusOK, &st)
	if !st.LoggedIn || st.Token != tok {
		fatalf("check: not logged in: %+v", st)
	}

	s.expect(http.MethodGet, "/artist", tok, http.StatusOK)
	s.expect(http.MethodGet, "/song", tok, http.StatusOK)

	s.expectJSON(http.MethodPut, "/login", "", tok, http.StatusOK, &st)
	if !st.LoggedIn || st.Token == "" || st.Token == tok {
		fatalf("refresh: token not rotated: %+v", st)
	}
	fresh := st.Token
	s.logf("refresh ok")

	s.expect(http.MethodGet, "/artist", tok, http.StatusForbidden)
	s.expect(http.MethodGet, "/artist", fresh, http.StatusOK)

	s.expect(http.MethodPost, "/logout", fresh, http.StatusOK)
	s.expectJSON(http.MethodGet, "/login", "", fresh, http.StatusOK, &st)
	if st.LoggedIn {
		fatalf("logout: still logged in")
	}

	fmt.Println("auth smoke: OK")
}

func (s *smoke) do(method, path, body, bearer string) (int, string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base+path, rd)
	if err != nil {
		fatalf("%s %s: %v", method, path, err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		fatalf("%s %s: read body: %v", method, path, err)
	}
	s.logf("%s %s -> %d", method, path, resp.StatusCode)
	return resp.StatusCode, string(b)
}

func (s *smoke) expect(method, path, bearer string, want int) {
	if code, body := s.do(method, path, "", bearer); code != want {
		fatalf("%s %s: status %d want %d: %s", method, path, code, want, body)
	}
}

func (s *smoke) expectJSON(method, path, body, bearer string, want int, out any) {
	code, raw := s.do(method, path, body, bearer)
	if code != want {
		fatalf("%s %s: status %d want %d: %s", method, path, code, want, raw)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		fatalf("%s %s: decode: %v", method, path, err)
	}
}

func (s *smoke) logf(format string, args ...any) {
	if s.verbose {
		fmt.Printf("[smoke] "+format+"\n", args...)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "auth smoke: "+format+"\n", args...)
	os.Exit(1)
}
