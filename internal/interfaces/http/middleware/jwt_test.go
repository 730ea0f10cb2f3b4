package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(jwtService))
	engine.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "username": GetJWTUsername(c)})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func newMiddlewareJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "middleware-test-secret",
		Issuer: "test-issuer",
	})
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newMiddlewareJWTService()
	engine := newTestEngine(svc)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "alice")
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	engine := newTestEngine(newMiddlewareJWTService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	engine := newTestEngine(newMiddlewareJWTService())

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "some-token"},
		{"empty token after prefix", "Bearer "},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			req.Header.Set(AuthHeaderKey, tt.header)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	engine := newTestEngine(newMiddlewareJWTService())

	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret", Issuer: "test-issuer"})
	token, err := other.GenerateToken(uuid.New(), "mallory")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	engine := newTestEngine(newMiddlewareJWTService())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
