package addressbook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/metrics"
)

// Handler provides HTTP endpoints for recipient validation.
type Handler struct {
	validator *Validator
}

// NewHandler creates a new address handler.
func NewHandler(v *Validator) *Handler {
	return &Handler{validator: v}
}

// RegisterRoutes sets up validation routes. Validation is a pure format
// check, so it does not need a connected session.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/addresses/validate", h.ValidateQuery)
	r.POST("/addresses/validate", h.ValidateBody)
}

type validateRequest struct {
	Input string `json:"input"`
}

// ValidateQuery handles GET /v1/addresses/validate?input=
func (h *Handler) ValidateQuery(c *gin.Context) {
	h.respond(c, c.Query("input"))
}

// ValidateBody handles POST /v1/addresses/validate
func (h *Handler) ValidateBody(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	h.respond(c, req.Input)
}

// respond always answers 200: an invalid address is a result, not an error.
func (h *Handler) respond(c *gin.Context, input string) {
	result := h.validator.Validate(input)
	if result == nil {
		metrics.AddressValidationsTotal.WithLabelValues(string(KindEmpty)).Inc()
		c.JSON(http.StatusOK, gin.H{"result": nil})
		return
	}
	metrics.AddressValidationsTotal.WithLabelValues(string(result.Kind)).Inc()
	c.JSON(http.StatusOK, gin.H{"result": result})
}
