// Package security provides browser-facing security middleware for the
// PeerPay pages and API.
package security

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/logging"
)

// contentPolicy allows the inline styles of the server-rendered pages and
// the websocket back to the same host. Forms may only post to this origin.
const contentPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' ws: wss:; form-action 'self'; frame-ancestors 'none'"

// HeadersMiddleware adds security headers to all responses
func HeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", contentPolicy)
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
		c.Next()
	}
}

// CORSMiddleware handles CORS for the JSON API. Sessions ride on a cookie,
// so a wildcard origin is echoed back without credentials.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	wildcard := allowed["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && (wildcard || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			c.Header("Access-Control-Max-Age", "86400")
			if !wildcard {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SameOriginPosts rejects state-changing requests whose Origin (or, when
// absent, Referer) names a different host than the one being served.
// Requests carrying neither header are let through; non-browser clients
// do not send them.
func SameOriginPosts(trusted []string) gin.HandlerFunc {
	extra := make(map[string]bool, len(trusted))
	for _, o := range trusted {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			extra[strings.ToLower(u.Host)] = true
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		source := c.GetHeader("Origin")
		if source == "" {
			source = c.GetHeader("Referer")
		}
		if source == "" {
			c.Next()
			return
		}

		u, err := url.Parse(source)
		host := ""
		if err == nil {
			host = strings.ToLower(u.Host)
		}
		if host != "" && (host == strings.ToLower(c.Request.Host) || extra[host]) {
			c.Next()
			return
		}

		logging.L(c.Request.Context()).Warn("cross-origin post rejected",
			"origin", source,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "cross_origin",
			"message": "Request origin is not allowed",
		})
	}
}
