package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"runclub-api/models"
	"runclub-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]*services.Claims

func (s stubAuth) Authenticate(_ context.Context, token string) (*services.Claims, error) {
	switch token {
	case "suspended":
		return nil, services.ErrAccountSuspended
	case "broken":
		return nil, errors.New("db down")
	}
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, services.ErrInvalidToken
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuth{
		"user":  {UserID: "2", Role: models.RoleUser},
		"admin": {UserID: "1", Role: models.RoleAdmin},
	}
	r := newRouter(AuthMiddleware(auth))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"unknown token", "nope", http.StatusUnauthorized},
		{"suspended", "suspended", http.StatusForbidden},
		{"store failure", "broken", http.StatusInternalServerError},
		{"valid", "user", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/ok", tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, http.MethodGet, "/ok", "admin")
	assert.JSONEq(t, `{"user_id":"1","role":"admin"}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	auth := stubAuth{
		"user":  {UserID: "2", Role: models.RoleUser},
		"admin": {UserID: "1", Role: models.RoleAdmin},
	}
	r := newRouter(AuthMiddleware(auth), RequireAdmin())

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/ok", "user").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "admin").Code)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(60, 2))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)

	w := do(r, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), `"code":429`)
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.GetLimiter("10.0.0.1")
	rl.GetLimiter("10.0.0.2")
	require.Equal(t, 2, rl.size())

	now = now.Add(11 * time.Minute)
	rl.GetLimiter("10.0.0.3")
	assert.Equal(t, 1, rl.size())
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(CORS())
	r.OPTIONS("/ok", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := do(r, http.MethodOptions, "/ok", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	w := do(newRouter(SecurityHeaders()), http.MethodGet, "/ok", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestLoggerAndErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(log), ErrorHandler(log))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("kaput"))
	})
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")

	do(r, http.MethodGet, "/ok?x=1", "")

	require.Equal(t, 1, logs.FilterMessage("request error").Len())
	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 2)
	assert.Equal(t, zap.ErrorLevel, requests[0].Level)
	assert.Equal(t, "/ok?x=1", requests[1].ContextMap()["path"])
	assert.EqualValues(t, http.StatusOK, requests[1].ContextMap()["status"])
}
