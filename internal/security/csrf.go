package security

import (
	"crypto/sha256"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"golang.org/x/crypto/hkdf"

	"github.com/mrlokans/linkdepot/internal/dispatch"
)

const (
	// KeySize is the length of the derived CSRF authentication key.
	KeySize = 32

	keyInfo = "linkdepot csrf v1"
)

// DeriveKey stretches an operator supplied secret of any length into the
// 32 byte key gorilla/csrf expects.
func DeriveKey(secret string) ([]byte, error) {
	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// CSRFMiddleware protects form submissions. API requests (see isAPIRequest)
// are not checked: those callers never see a form and so have no token to
// send.
func CSRFMiddleware(secret string, secure bool) (gin.HandlerFunc, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}

	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if isAPIRequest(c) {
			c.Next()
			return
		}

		req := c.Request
		if !isHTTPS(c) {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, req)
		if !passed {
			c.Abort()
		}
	}, nil
}

// isAPIRequest reports whether a request asks for JSON or XML and could not
// have been produced by a cross-site page. A browser tags its requests with
// Sec-Fetch-Site, Origin or Referer; all of them must point back at this
// host. X-Requested-With cannot be set by a cross-site form without a CORS
// preflight, which is never granted.
func isAPIRequest(c *gin.Context) bool {
	switch dispatch.ParseFormat(c.Query("format")) {
	case dispatch.FormatJSON, dispatch.FormatXML:
	default:
		return false
	}

	if c.GetHeader("X-Requested-With") != "" {
		return true
	}

	switch c.GetHeader("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return false
	}

	host := c.Request.Host
	if origin := c.GetHeader("Origin"); origin != "" && !sameHost(origin, host) {
		return false
	}
	if referer := c.GetHeader("Referer"); referer != "" && !sameHost(referer, host) {
		return false
	}
	return true
}

func sameHost(raw, host string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form submission could not be verified.</p>
<p><a href="javascript:history.back()">Go back and try again</a></p>
</body>
</html>`))
}
