// Package guard redirects page requests based on whether the browser's
// wallet session is connected.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/metrics"
	"github.com/mbd888/peerpay/internal/session"
)

// Kind says who may see a route.
type Kind int

const (
	// KindOpen routes render for everyone (the 404 page, operational endpoints).
	KindOpen Kind = iota
	// KindPublic routes are for visitors without a wallet; connected
	// sessions are sent to the dashboard.
	KindPublic
	// KindProtected routes need a connected wallet.
	KindProtected
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindProtected:
		return "protected"
	default:
		return "open"
	}
}

const (
	LandingPath   = "/"
	DashboardPath = "/dashboard"
)

// Route is one entry of the page route table.
type Route struct {
	Path string
	Kind Kind
}

// Routes is the page route table.
var Routes = []Route{
	{Path: "/", Kind: KindPublic},
	{Path: "/dashboard", Kind: KindProtected},
	{Path: "/request", Kind: KindProtected},
	{Path: "/send", Kind: KindProtected},
	{Path: "/requests", Kind: KindProtected},
	{Path: "/inbox", Kind: KindProtected},
	{Path: "/settings", Kind: KindProtected},
	{Path: "/giveaway", Kind: KindProtected},
}

// KindOf returns the kind of path, or KindOpen for paths not in the table.
func KindOf(path string) Kind {
	for _, r := range Routes {
		if r.Path == path {
			return r.Kind
		}
	}
	return KindOpen
}

// Decide returns where to send a request of the given kind, or allowed
// when the page should render.
func Decide(kind Kind, connected bool) (redirect string, allowed bool) {
	switch {
	case kind == KindProtected && !connected:
		return LandingPath, false
	case kind == KindPublic && connected:
		return DashboardPath, false
	default:
		return "", true
	}
}

// Protected guards pages that need a connected wallet.
func Protected() gin.HandlerFunc {
	return middleware(KindProtected)
}

// Public guards the landing page.
func Public() gin.HandlerFunc {
	return middleware(KindPublic)
}

// For guards a page according to the route table.
func For(path string) gin.HandlerFunc {
	return middleware(KindOf(path))
}

func middleware(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.MustFrom(c)
		target, ok := Decide(kind, s.Connected)
		if ok {
			c.Next()
			return
		}
		metrics.GuardRedirectsTotal.WithLabelValues(target).Inc()
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RequireConnectedAPI rejects API calls from sessions without a wallet.
func RequireConnectedAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.MustFrom(c).Connected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "not_connected",
				"message": "Connect a wallet first",
			})
			return
		}
		c.Next()
	}
}
