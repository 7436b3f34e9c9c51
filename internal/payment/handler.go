package payment

import (
	"github.com/mhmasum1/digital-life-lessons-server/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the checkout endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// CheckoutRequestBody is the body of POST /create-checkout-session.
type CheckoutRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// RegisterRoutes mounts the public payment routes.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/create-checkout-session", h.createCheckout)
	router.PATCH("/payment-success", h.paymentSuccess)
}

func (h *Handler) createCheckout(c *gin.Context) {
	var req CheckoutRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	url, err := h.service.CreateCheckout(c.Request.Context(), req.Email)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"url": url})
}

func (h *Handler) paymentSuccess(c *gin.Context) {
	result, err := h.service.ConfirmSuccess(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result)
}
