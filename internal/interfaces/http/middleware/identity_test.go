package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/butcher-shop-backend/internal/config"
)

const testSecret = "test-secret-key-at-least-32-characters"

func identityRouter(cfg *config.Config) (*gin.Engine, *struct{ user, guest *string }) {
	gin.SetMode(gin.TestMode)

	captured := &struct{ user, guest *string }{}
	router := gin.New()
	router.Use(Identity(cfg))
	router.GET("/whoami", func(c *gin.Context) {
		captured.user, captured.guest = IdentityFromContext(c)
		c.Status(http.StatusOK)
	})
	return router, captured
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testSecret},
	}
}

func TestIdentityFromBearerToken(t *testing.T) {
	router, captured := identityRouter(testConfig())

	claims := jwt.RegisteredClaims{
		Subject:   "user_29w83",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, captured.user) {
		assert.Equal(t, "user_29w83", *captured.user)
	}
	assert.Nil(t, captured.guest)
}

func TestIdentityFromGuestHeader(t *testing.T) {
	router, captured := identityRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Guest-ID", "guest-abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Nil(t, captured.user)
	if assert.NotNil(t, captured.guest) {
		assert.Equal(t, "guest-abc", *captured.guest)
	}
}

func TestIdentityMintsGuestCookie(t *testing.T) {
	router, captured := identityRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Nil(t, captured.user)
	assert.NotNil(t, captured.guest)

	cookies := w.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == guestCookieName {
			found = true
			assert.Equal(t, *captured.guest, cookie.Value)
		}
	}
	assert.True(t, found, "first contact sets the guest cookie")
}

func TestIdentityInvalidTokenFallsBackToGuest(t *testing.T) {
	router, captured := identityRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.Header.Set("X-Guest-ID", "guest-fallback")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, captured.user)
	if assert.NotNil(t, captured.guest) {
		assert.Equal(t, "guest-fallback", *captured.guest)
	}
}

func TestAdminAuthRejectsCustomerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.Use(AdminAuth(cfg))
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	// A provider session token carries no admin claim
	claims := jwt.RegisteredClaims{
		Subject:   "user_29w83",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAuthRequiresHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(AdminAuth(testConfig()))
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
