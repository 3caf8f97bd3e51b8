// backend/src/handlers/csrf_handler.go
package handlers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/username/patrimonio/backend/src/config"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/utils"
)

const csrfCookieName = "_csrf_token"

// GetCSRFToken issues a signed double-submit token: the value goes into a
// cookie and into the response body, and the client echoes it back in the
// X-CSRF-Token header on state-changing requests.
func GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := generateCSRFToken(config.Cfg.CSRFAuthKey)
	if err != nil {
		logger.L.Error("Error generating CSRF token", "error", err)
		utils.SendJSONError(w, "Failed to generate CSRF token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		MaxAge:   3600,
	})

	w.Header().Set("X-CSRF-Token", token)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// generateCSRFToken produces "nonce.signature" where the signature is an
// HMAC of the nonce under the configured auth key.
func generateCSRFToken(key []byte) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(nonce)
	return base64.RawURLEncoding.EncodeToString(nonce) + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func validCSRFToken(key []byte, token string) bool {
	dot := strings.IndexByte(token, '.')
	if dot < 0 {
		return false
	}
	nonce, err := base64.RawURLEncoding.DecodeString(token[:dot])
	if err != nil {
		return false
	}
	sig, err := base64.RawURLEncoding.DecodeString(token[dot+1:])
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(nonce)
	return hmac.Equal(sig, mac.Sum(nil))
}

// CSRFMiddleware enforces the double-submit check on state-changing methods.
// Safe methods pass through untouched.
func CSRFMiddleware(csrfKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			headerToken := r.Header.Get("X-CSRF-Token")
			cookie, err := r.Cookie(csrfCookieName)

			if headerToken != "" && err == nil && headerToken == cookie.Value && validCSRFToken(csrfKey, headerToken) {
				next.ServeHTTP(w, r)
				return
			}

			logger.L.Warn("CSRF validation failed",
				"method", r.Method,
				"path", r.URL.Path,
				"headerTokenPresent", headerToken != "",
				"cookieError", err,
				"origin", r.Header.Get("Origin"),
			)
			utils.SendJSONError(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
}
