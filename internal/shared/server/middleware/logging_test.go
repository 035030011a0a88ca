package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Configure(&buf, false)
	t.Cleanup(func() { telemetry.Configure(os.Stdout, false) })

	router := gin.New()
	router.Use(RequestID(), Identity(nil), Logging())
	router.POST("/api/v1/news/:id/like", func(c *gin.Context) {
		c.Set("articleId", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/7/like", nil)
	req.Header.Set("X-User-Id", "u-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, last)
	}

	required := []string{"request_id", "user_id", "article_id", "duration_ms", "status", "method", "path", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["user_id"] != "u-1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["article_id"] != "7" {
		t.Fatalf("unexpected article_id: %v", payload["article_id"])
	}
	if payload["route"] != "/api/v1/news/:id/like" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["request_id"] != resp.Header().Get("X-Request-Id") {
		t.Fatalf("request_id %v does not match response header %q", payload["request_id"], resp.Header().Get("X-Request-Id"))
	}
}

func TestLoggingSkipsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Configure(&buf, false)
	t.Cleanup(func() { telemetry.Configure(os.Stdout, false) })

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/api/v1/news", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/api/v1/news", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %s", buf.String())
	}
}
