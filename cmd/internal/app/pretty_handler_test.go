package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	if got := stripANSI(in); got != "INFO plain ERR" {
		t.Fatalf("stripANSI()=%q", got)
	}
}

func TestWrapSegments_WrapsForNarrowWidth(t *testing.T) {
	t.Parallel()

	s1 := strings.Repeat("a", 20)
	s2 := strings.Repeat("b", 20)
	s3 := strings.Repeat("c", 20)

	lines := wrapSegments([]string{s1, s2, s3}, " | ", 60, "-> ")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d (%v)", len(lines), lines)
	}
	if lines[0] != s1+" | "+s2 {
		t.Fatalf("line[0]=%q", lines[0])
	}
	if lines[1] != "-> "+s3 {
		t.Fatalf("line[1]=%q", lines[1])
	}
}

func TestWrapSegments_TruncatesLongSegment(t *testing.T) {
	t.Parallel()

	lines := wrapSegments([]string{strings.Repeat("x", 80)}, " | ", 60, "-> ")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if visualLen(lines[0]) > 60 {
		t.Fatalf("line too wide: visualLen=%d", visualLen(lines[0]))
	}
	if !strings.HasSuffix(lines[0], ellipsis) {
		t.Fatalf("expected truncation marker in %q", lines[0])
	}
}

func TestTerminalWidth(t *testing.T) {
	h := &prettyHandler{}

	t.Setenv("BOMBAY_LOG_WIDTH", "88")
	t.Setenv("COLUMNS", "132")
	if got := h.terminalWidth(); got != 88 {
		t.Fatalf("override: got %d want 88", got)
	}

	t.Setenv("BOMBAY_LOG_WIDTH", "")
	t.Setenv("COLUMNS", "72")
	if got := h.terminalWidth(); got != 72 {
		t.Fatalf("columns: got %d want 72", got)
	}

	t.Setenv("BOMBAY_LOG_WIDTH", "10")
	t.Setenv("COLUMNS", "20")
	if got := h.terminalWidth(); got != defaultLogWidth {
		t.Fatalf("fallback: got %d want %d", got, defaultLogWidth)
	}
}

func TestPrettyHandler_Output(t *testing.T) {
	t.Setenv("BOMBAY_LOG_WIDTH", "200")

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))
	log.With("component", "session").WithGroup("sweep").Warn("session.sweep.done", "deleted", 3, "status_class", "2xx")

	got := buf.String()
	for _, want := range []string{"[WARN]", "session.sweep.done", "component=session", "sweep.deleted=3", "sweep.class=2xx"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("unexpected color codes: %q", got)
	}
}
