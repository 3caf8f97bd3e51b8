// backend/src/handlers/csrf_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/patrimonio/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

func protectedEcho() http.Handler {
	return CSRFMiddleware(testCSRFKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRFMiddleware_SafeMethodsPass(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)

	protectedEcho().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddleware_RejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)

	protectedEcho().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddleware_AcceptsValidDoubleSubmit(t *testing.T) {
	token, err := generateCSRFToken(testCSRFKey)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})

	protectedEcho().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddleware_RejectsMismatchedCookie(t *testing.T) {
	headerToken, err := generateCSRFToken(testCSRFKey)
	require.NoError(t, err)
	cookieToken, err := generateCSRFToken(testCSRFKey)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)
	req.Header.Set("X-CSRF-Token", headerToken)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookieToken})

	protectedEcho().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddleware_RejectsForgedSignature(t *testing.T) {
	forged := "Zm9yZ2VkLW5vbmNl.Zm9yZ2VkLXNpZ25hdHVyZQ"

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assets", nil)
	req.Header.Set("X-CSRF-Token", forged)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: forged})

	protectedEcho().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidCSRFToken_RejectsWrongKey(t *testing.T) {
	token, err := generateCSRFToken(testCSRFKey)
	require.NoError(t, err)

	assert.True(t, validCSRFToken(testCSRFKey, token))
	assert.False(t, validCSRFToken([]byte("another-key-another-key-another!"), token))
	assert.False(t, validCSRFToken(testCSRFKey, "not-a-token"))
}
