package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLogs swaps the default logger for one writing to a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, body: "hello", wantLevel: "level=INFO"},
		{name: "not found", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/categories", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			out := logs.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log %q missing %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, "path=/categories") {
				t.Errorf("log %q missing path", out)
			}
		})
	}
}

func TestLoggerRequestID(t *testing.T) {
	logs := captureLogs(t)
	handler := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(logs.String(), "request_id=abc-123") {
		t.Errorf("log %q missing request id", logs.String())
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Run("WriteHeader only captures first call", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		rec.WriteHeader(http.StatusNotFound)
		rec.WriteHeader(http.StatusInternalServerError)
		if rec.status != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.status)
		}
	})

	t.Run("Write defaults to 200 and counts bytes", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		rec.Write([]byte("test"))
		rec.Write([]byte("ing"))
		if rec.status != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.status)
		}
		if rec.bytes != 7 {
			t.Errorf("bytes: got %d, want 7", rec.bytes)
		}
	})

	t.Run("nested recorders are shared", func(t *testing.T) {
		outer := newStatusRecorder(httptest.NewRecorder())
		if inner := newStatusRecorder(outer); inner != outer {
			t.Error("expected the existing recorder to be reused")
		}
	})
}
