package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"workdesk/config"
	"workdesk/pkg/jwt"
	applogger "workdesk/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mocks ──

type mockChecker struct {
	revoked map[string]bool
	err     error
}

func (m *mockChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], m.err
}

type mockLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allowed, m.err
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func do(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func authEngine(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(mgr, checker, zap.NewNop()))
	r.POST("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
			"jti":     c.GetString("token_jti"),
		})
	})
	return r
}

func TestJWTAuth_Rejects(t *testing.T) {
	r := authEngine(newTestJWT(), nil)

	tests := []struct {
		name   string
		header string
	}{
		{"缺少认证头", ""},
		{"格式错误", "Token abc"},
		{"Token 无效", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			w := do(r, "POST", "/me", h)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_InjectsClaims(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("user-1", "boss")
	r := authEngine(mgr, nil)

	w := do(r, "POST", "/me", map[string]string{"Authorization": "Bearer " + token})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_id":"user-1"`) || !strings.Contains(body, `"role":"boss"`) {
		t.Errorf("claims not injected: %s", body)
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("user-1", "staff")
	claims, _ := mgr.ParseToken(token)
	header := map[string]string{"Authorization": "Bearer " + token}

	revoked := authEngine(mgr, &mockChecker{revoked: map[string]bool{claims.ID: true}})
	if w := do(revoked, "POST", "/me", header); w.Code != http.StatusUnauthorized {
		t.Errorf("blacklisted token: expected 401, got %d", w.Code)
	}

	// 黑名单查询失败时降级放行
	degraded := authEngine(mgr, &mockChecker{err: errors.New("redis down")})
	if w := do(degraded, "POST", "/me", header); w.Code != http.StatusOK {
		t.Errorf("checker error: expected 200, got %d", w.Code)
	}
}

// ── RateLimit ──

func limitEngine(limiter RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimit(limiter, 5, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit(t *testing.T) {
	if w := do(limitEngine(nil), "POST", "/login", nil); w.Code != http.StatusOK {
		t.Errorf("nil limiter: expected 200, got %d", w.Code)
	}

	denied := &mockLimiter{allowed: false}
	if w := do(limitEngine(denied), "POST", "/login", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("denied: expected 429, got %d", w.Code)
	}
	if len(denied.keys) != 1 || !strings.HasSuffix(denied.keys[0], ":/login") {
		t.Errorf("unexpected key: %v", denied.keys)
	}

	if w := do(limitEngine(&mockLimiter{err: errors.New("redis down")}), "POST", "/login", nil); w.Code != http.StatusOK {
		t.Errorf("limiter error: expected 200, got %d", w.Code)
	}
}

// ── RequestID + Logger ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "GET", "/", map[string]string{requestIDHeader: "abc-123"})
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected passthrough id, got %q", got)
	}

	w = do(r, "GET", "/", map[string]string{requestIDHeader: strings.Repeat("x", requestIDMaxLen+1)})
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestLogger_RequestScopedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	r := gin.New()
	r.Use(RequestID(), Logger(base))
	r.GET("/ping", func(c *gin.Context) {
		applogger.From(c.Request.Context(), zap.NewNop()).Info("业务日志")
		c.Status(http.StatusOK)
	})

	do(r, "GET", "/ping", map[string]string{requestIDHeader: "rid-1"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()["request_id"] != "rid-1" {
			t.Errorf("entry %q missing request_id: %v", e.Message, e.ContextMap())
		}
	}
	if entries[1].Message != "请求完成" {
		t.Errorf("expected access log last, got %q", entries[1].Message)
	}
}

// ── BodyLimit / CORS ──

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"too long"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "OPTIONS", "/", map[string]string{"Origin": "http://localhost:5173"})
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("expected allowed origin header")
	}

	w = do(r, "OPTIONS", "/", map[string]string{"Origin": "http://evil.example"})
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected origin should not be allowed")
	}
}
