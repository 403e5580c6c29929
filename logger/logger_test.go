package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestNewLevelsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Environment: "production", Level: "warn", Output: &buf})
	if l.Logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %s, want warn", l.Logger.GetLevel())
	}
	l.Info("hidden")
	l.Component("dataset").Warn("shown")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "shown" || line["component"] != "dataset" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestMiddlewareEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Middleware(New(Options{Level: "info", Output: &buf})))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id header = %q", got)
	}
	if !strings.Contains(buf.String(), "req_id=abc-123") || !strings.Contains(buf.String(), "status=200") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
}
