package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCSRFRouter(t *testing.T) *gin.Engine {
	t.Helper()
	secret, err := GenerateSessionSecret()
	require.NoError(t, err)

	router := gin.New()
	router.Use(CSRFMiddleware(secret, false))
	router.GET("/api/words", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/words", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func fetchCSRFToken(t *testing.T, router *gin.Engine) (string, []*http.Cookie) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/words", nil))
	require.Equal(t, http.StatusOK, w.Code)

	token := w.Header().Get(CSRFTokenHeader)
	require.NotEmpty(t, token)
	return token, w.Result().Cookies()
}

func TestCSRFMiddleware_RejectsMissingToken(t *testing.T) {
	router := setupCSRFRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/words", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF")
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	router := setupCSRFRouter(t)
	token, cookies := fetchCSRFToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/words", nil)
	req.Header.Set(CSRFTokenHeader, token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCSRFMiddleware_BearerRequestsSkipCheck(t *testing.T) {
	router := setupCSRFRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/words", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}
