package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader carries the token in both directions: responses expose it
// and unsafe requests must echo it back.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware protects cookie-authenticated requests. Requests that carry
// a bearer token are not exposed to CSRF and skip the check.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if _, ok := bearerToken(c); ok {
			c.Next()
			return
		}

		// gorilla/csrf rejects plain-HTTP requests without a Referer unless
		// told the request is not over TLS.
		req := c.Request
		if !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}
