package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/logging"
)

const contextKey = "peerpay.session"

// CookieConfig controls the browser cookie that carries the session id.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Provider resolves the browser's session from its cookie, creating a
// fresh disconnected session when the cookie is missing or stale, and
// installs it in the request for From and MustFrom.
func Provider(m *Manager, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookie.Name)

		s, err := m.Open(c.Request.Context(), id)
		if err != nil {
			logging.L(c.Request.Context()).Error("failed to open session", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "session_unavailable",
				"message": "Session storage is unavailable",
			})
			return
		}

		if s.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, s.ID, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		}

		c.Set(contextKey, s)
		c.Request = c.Request.WithContext(logging.WithSessionID(c.Request.Context(), s.ID))
		c.Next()
	}
}

// ReadOnly installs the browser's stored session when its cookie resolves
// and a transient disconnected one otherwise. Unlike Provider it neither
// creates sessions nor sets cookies, so it suits pages like 404 that any
// crawler can reach.
func ReadOnly(m *Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)

		s, err := m.Peek(c.Request.Context(), id)
		if err != nil {
			logging.L(c.Request.Context()).Warn("failed to load session", "error", err)
			s = &Session{}
		}

		c.Set(contextKey, s)
		if s.ID != "" {
			c.Request = c.Request.WithContext(logging.WithSessionID(c.Request.Context(), s.ID))
		}
		c.Next()
	}
}

// From returns the session installed by Provider.
func From(c *gin.Context) (*Session, error) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, ErrNoProvider
	}
	s, ok := v.(*Session)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}

// MustFrom is From for handlers that are always mounted behind Provider.
// It panics with ErrNoProvider otherwise.
func MustFrom(c *gin.Context) *Session {
	s, err := From(c)
	if err != nil {
		panic(err)
	}
	return s
}

// Replace swaps the request's session after a transition so later
// middleware and the rendered page see the new state.
func Replace(c *gin.Context, s *Session) {
	if s != nil {
		c.Set(contextKey, s)
	}
}
