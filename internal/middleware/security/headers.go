// Package security sets response headers for a single-page editor that
// serves everything itself except the pinned htmx build.
package security

import (
	"fmt"
	"net/http"
)

type HeadersConfig struct {
	CSP               string
	XFrameOptions     string
	ReferrerPolicy    string
	PermissionsPolicy string
	HSTSMaxAge        int
}

// DefaultHeadersConfig returns the policy this page needs and nothing
// wider. The CSP allows unpkg for htmx, inline styles because theme
// swatches carry their gradient in a style attribute, and data: images
// for the uploaded logo.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'",
		XFrameOptions:     "DENY",
		ReferrerPolicy:    "strict-origin-when-cross-origin",
		PermissionsPolicy: "camera=(), geolocation=(), microphone=(), payment=()",
		HSTSMaxAge:        31536000,
	}
}

type HeadersMiddleware struct {
	config HeadersConfig
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	return &HeadersMiddleware{config: config}
}

func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", h.config.XFrameOptions)
		if h.config.CSP != "" {
			headers.Set("Content-Security-Policy", h.config.CSP)
		}
		headers.Set("Referrer-Policy", h.config.ReferrerPolicy)
		headers.Set("Permissions-Policy", h.config.PermissionsPolicy)

		// HSTS only once the request actually arrived over TLS.
		if r.TLS != nil && h.config.HSTSMaxAge > 0 {
			headers.Set("Strict-Transport-Security",
				fmt.Sprintf("max-age=%d; includeSubDomains", h.config.HSTSMaxAge))
		}

		next.ServeHTTP(w, r)
	})
}

// StaticAssetMiddleware marks embedded assets immutable; the binary has
// to be rebuilt to change them anyway.
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
