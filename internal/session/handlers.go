package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/chains"
)

// Handler provides HTTP endpoints for the simulated wallet session.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new session handler.
func NewHandler(m *Manager) *Handler {
	return &Handler{manager: m}
}

// RegisterRoutes sets up session routes. The group must run behind Provider.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/session", h.GetSession)
	r.POST("/session/connect", h.Connect)
	r.POST("/session/disconnect", h.Disconnect)
	r.POST("/session/chain", h.SwitchChain)
	r.GET("/chains", h.ListChains)
}

// GetSession handles GET /v1/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": MustFrom(c)})
}

// Connect handles POST /v1/session/connect
func (h *Handler) Connect(c *gin.Context) {
	s := h.manager.Connect(c.Request.Context(), MustFrom(c).ID)
	Replace(c, s)
	c.JSON(http.StatusOK, gin.H{"session": s})
}

// Disconnect handles POST /v1/session/disconnect
func (h *Handler) Disconnect(c *gin.Context) {
	s := h.manager.Disconnect(c.Request.Context(), MustFrom(c).ID)
	Replace(c, s)
	c.JSON(http.StatusOK, gin.H{"session": s})
}

type switchChainRequest struct {
	ChainID *int64 `json:"chainId" binding:"required"`
}

// SwitchChain handles POST /v1/session/chain
func (h *Handler) SwitchChain(c *gin.Context) {
	var req switchChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "chainId is required",
		})
		return
	}

	s, err := h.manager.SwitchChain(c.Request.Context(), MustFrom(c).ID, *req.ChainID)
	if err != nil {
		status, code := switchChainError(err)
		c.JSON(status, gin.H{
			"error":   code,
			"message": err.Error(),
		})
		return
	}
	Replace(c, s)
	c.JSON(http.StatusOK, gin.H{
		"session": s,
		"chain":   chainView(*s.ChainID),
	})
}

func switchChainError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidChain):
		return http.StatusBadRequest, "invalid_chain"
	case errors.Is(err, ErrNotConnected):
		return http.StatusUnauthorized, "not_connected"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// ListChains handles GET /v1/chains
func (h *Handler) ListChains(c *gin.Context) {
	var current int64
	if s, err := From(c); err == nil && s.ChainID != nil {
		current = *s.ChainID
	}

	all := chains.All()
	out := make([]gin.H, 0, len(all))
	for _, ch := range all {
		out = append(out, gin.H{
			"id":       ch.ID,
			"name":     ch.Name,
			"slug":     ch.Slug,
			"currency": ch.Currency,
			"testnet":  ch.Testnet,
			"current":  ch.ID == current,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chains": out, "count": len(out)})
}

func chainView(id int64) gin.H {
	ch, known := chains.Lookup(id)
	return gin.H{
		"id":    id,
		"name":  chains.Name(id),
		"known": known,
		"slug":  ch.Slug,
	}
}
