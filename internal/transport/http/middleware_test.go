package http

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs method, path and status", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := log.New(buf, "", 0)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := httptest.NewRecorder()
		RequestLogger(next, logger).ServeHTTP(rec, req)

		line := buf.String()
		if !strings.Contains(line, "method=GET") ||
			!strings.Contains(line, "path=/api/events") ||
			!strings.Contains(line, "status=418") {
			t.Fatalf("unexpected log line: %q", line)
		}
	})

	t.Run("defaults to 200 when the handler never writes a header", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := log.New(buf, "", 0)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		RequestLogger(next, logger).ServeHTTP(rec, req)

		if !strings.Contains(buf.String(), "status=200") {
			t.Fatalf("unexpected log line: %q", buf.String())
		}
	})

	t.Run("forwards Flush to the wrapped writer", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f, ok := w.(http.Flusher)
			if !ok {
				t.Fatalf("expected the wrapped writer to implement http.Flusher")
			}
			f.Flush()
		})

		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
		rec := httptest.NewRecorder()
		RequestLogger(next, log.New(&bytes.Buffer{}, "", 0)).ServeHTTP(rec, req)

		if !rec.Flushed {
			t.Fatalf("expected flush to reach the underlying writer")
		}
	})
}
