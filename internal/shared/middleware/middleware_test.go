package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/constants"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:       "test-secret",
			JWTExpiresIn: 15 * time.Minute,
		},
	}
}

func signToken(t *testing.T, secret, tokenType string, claims jwt.MapClaims) string {
	t.Helper()

	claims["type"] = tokenType
	claims["exp"] = time.Now().Add(15 * time.Minute).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func performRequest(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuthWithConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testJWTConfig()

	var seenUserID interface{}
	engine := gin.New()
	engine.GET("/protected", JWTAuthWithConfig(cfg), func(c *gin.Context) {
		seenUserID, _ = c.Get("user_id")
		c.Status(http.StatusOK)
	})

	t.Run("missing header", func(t *testing.T) {
		w := performRequest(engine, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := performRequest(engine, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token := signToken(t, cfg.JWT.Secret, "refresh", jwt.MapClaims{"user_id": "u1"})
		w := performRequest(engine, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid access token", func(t *testing.T) {
		token := signToken(t, cfg.JWT.Secret, "access", jwt.MapClaims{
			"user_id":  "u1",
			"username": "alice",
			"role":     constants.RoleUser,
		})
		w := performRequest(engine, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", seenUserID)
	})
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(role string) *gin.Engine {
		engine := gin.New()
		engine.GET("/protected", func(c *gin.Context) {
			if role != "" {
				c.Set("user_role", role)
			}
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}

	t.Run("admin allowed", func(t *testing.T) {
		w := performRequest(newEngine(constants.RoleAdmin), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		w := performRequest(newEngine(constants.RoleUser), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no role in context", func(t *testing.T) {
		w := performRequest(newEngine(""), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
