package log_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alnah/call-summary/internal/log"
)

// Tests in this file mutate the global logger and must not run in parallel.

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := log.ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if log.ValidLevel("bogus") {
		t.Error("ValidLevel(bogus) = true")
	}
	if !log.ValidLevel("Warn") {
		t.Error("ValidLevel(Warn) = false")
	}
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	log.Setup(&buf, false, "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["k"] != "v" || entry["level"] != "warn" {
		t.Errorf("entry = %v", entry)
	}

	log.SetLevel("debug")
	buf.Reset()
	log.Debug().Msg("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel(debug) did not enable debug output")
	}
}

func TestSetup_Development(t *testing.T) {
	var buf bytes.Buffer
	log.Setup(&buf, true, "info")
	log.Info().Msg("pretty")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("console writer should not emit JSON: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "pretty") {
		t.Errorf("missing message: %q", buf.String())
	}
}

func TestIsDevelopment(t *testing.T) {
	env := map[string]string{log.EnvVar: "Development"}
	if !log.IsDevelopment(func(k string) string { return env[k] }) {
		t.Error("IsDevelopment = false, want true")
	}
	if log.IsDevelopment(func(string) string { return "" }) {
		t.Error("IsDevelopment = true for empty env")
	}
}

func TestStdErrorLogger(t *testing.T) {
	var buf bytes.Buffer
	log.Setup(&buf, false, "info")

	log.StdErrorLogger().Print("http: TLS handshake error\n")
	if !strings.Contains(buf.String(), `"message":"http: TLS handshake error"`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log.Setup(&buf, false, "info")

	r := gin.New()
	r.Use(log.RequestID(), log.GinLogger())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

		id := w.Header().Get(log.RequestIDHeader)
		if len(id) != 36 {
			t.Errorf("request id = %q, want uuid", id)
		}
		out := buf.String()
		for _, want := range []string{`"status":404`, `"level":"warn"`, `"path":"/missing?x=1"`, id} {
			if !strings.Contains(out, want) {
				t.Errorf("log %q missing %s", out, want)
			}
		}
	})

	t.Run("reuses incoming request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set(log.RequestIDHeader, "abc")
		r.ServeHTTP(w, req)

		if got := w.Header().Get(log.RequestIDHeader); got != "abc" {
			t.Errorf("request id = %q, want abc", got)
		}
	})
}
