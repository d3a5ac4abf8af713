package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var pretty bytes.Buffer
	newLoggerTo(&pretty, "debug", "pretty").Debug("boot", "k", "v")
	if !strings.Contains(pretty.String(), "[DEBUG]") || !strings.Contains(pretty.String(), "k=v") {
		t.Fatalf("pretty output = %q", pretty.String())
	}

	var js bytes.Buffer
	newLoggerTo(&js, "warn", "").Info("dropped")
	newLoggerTo(&js, "warn", "json").Warn("kept")
	if strings.Contains(js.String(), "dropped") || !strings.Contains(js.String(), `"msg":"kept"`) {
		t.Fatalf("json output = %q", js.String())
	}
}
