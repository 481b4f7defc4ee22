package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elints/backend/internal/infrastructure/auth"
	"github.com/elints/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	})
}

func newAuthedRequest(t *testing.T, svc *auth.JWTService, role string) *http.Request {
	t.Helper()
	token, _, err := svc.GenerateToken(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     role,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	return req
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestJWTService()

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(JWTAuthMiddleware(svc))
		r.GET("/api/v1/orders", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"role": GetJWTRole(c), "user": GetJWTUsername(c)})
		})
		r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("valid token passes and claims land in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, newAuthedRequest(t, svc, "accounts-team"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "accounts-team")
		assert.Contains(t, w.Body.String(), "testuser")
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token is rejected with token expired code", func(t *testing.T) {
		expired := auth.NewJWTService(config.JWTConfig{
			Secret:     "test-secret-key-at-least-32-chars",
			Expiration: -time.Minute,
			Issuer:     "test-issuer",
		})
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, newAuthedRequest(t, expired, "admin"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})
}
