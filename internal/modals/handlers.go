package modals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/validation"
)

// Handler provides HTTP endpoints for the simulated dialogs.
type Handler struct {
	service *Service
}

// NewHandler creates a new modals handler. validation.RegisterBindings
// must have run before requests reach it.
func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes sets up routes that need a connected wallet.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/requests/review", h.ReviewRequest)
	r.GET("/requests/:id/pay", h.PreviewPayment)
	r.POST("/requests/:id/pay", h.PayRequest)
	r.POST("/requests/:id/decline", h.DeclineRequest)
}

// ReviewRequest handles POST /v1/requests/review
func (h *Handler) ReviewRequest(c *gin.Context) {
	var in ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "Request form is not valid",
			"details": validation.FromBinding(err),
		})
		return
	}

	review, err := h.service.Review(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// PreviewPayment handles GET /v1/requests/:id/pay
func (h *Handler) PreviewPayment(c *gin.Context) {
	preview, err := h.service.PayPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": preview})
}

// PayRequest handles POST /v1/requests/:id/pay
func (h *Handler) PayRequest(c *gin.Context) {
	receipt, err := h.service.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}

// DeclineRequest handles POST /v1/requests/:id/decline
func (h *Handler) DeclineRequest(c *gin.Context) {
	if err := h.service.Decline(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"declined": false, "message": "Decline is not implemented; the request is unchanged"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": "Request form is not valid",
			"details": verrs,
		})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Request not found",
		})
	case errors.Is(err, ErrNotPayable):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "not_payable",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Internal server error",
		})
	}
}
