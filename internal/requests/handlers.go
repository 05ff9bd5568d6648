package requests

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/logging"
)

// Handler provides HTTP endpoints for payment requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new requests handler.
func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes sets up routes that need a connected wallet.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/requests", h.ListRequests)
	r.GET("/requests/:id", h.GetRequest)
}

// ListRequests handles GET /v1/requests
//
// Without ?view the response carries all three tabs. With
// ?view=incoming|outgoing|history only that tab is returned.
func (h *Handler) ListRequests(c *gin.Context) {
	p, err := h.service.Partition(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list requests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list requests",
		})
		return
	}

	view := c.Query("view")
	var tab []*PaymentRequest
	switch view {
	case "":
		c.JSON(http.StatusOK, gin.H{
			"incoming": p.Incoming,
			"outgoing": p.Outgoing,
			"history":  p.History,
			"counts":   p.Counts(),
		})
		return
	case "incoming":
		tab = p.Incoming
	case "outgoing":
		tab = p.Outgoing
	case "history":
		tab = p.History
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_view",
			"message": "view must be incoming, outgoing or history",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":     view,
		"requests": tab,
		"count":    len(tab),
	})
}

// GetRequest handles GET /v1/requests/:id
func (h *Handler) GetRequest(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Request not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load request",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request":      r,
		"counterparty": r.Counterparty(),
	})
}
