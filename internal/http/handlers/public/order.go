package public

import (
	"strings"

	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/http/response"
	"github.com/soaringcoupons/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest order creation request body
type CreateOrderRequest struct {
	CouponTypeID string `json:"coupon_type_id" binding:"required"`
	Quantity     int    `json:"quantity"`
}

// CreateOrder creates a pending order and returns the gateway redirect
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.OrderService.Create(service.CreateOrderInput{
		CouponTypeID: strings.TrimSpace(req.CouponTypeID),
		Quantity:     req.Quantity,
	})
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}

	paymentURL, err := h.CheckoutService.StartPayment(order.ID)
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"order":       order,
		"payment_url": paymentURL,
	})
}

// GetOrder fetches an order with its coupons
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.Get(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// AcceptReturn handles the buyer coming back from the gateway after paying.
// The order may still be pending when the asynchronous callback has not
// arrived yet; the response reflects whatever state the order is in.
func (h *Handler) AcceptReturn(c *gin.Context) {
	order, err := h.OrderService.Get(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":   order,
		"coupons": order.Coupons,
	})
}

// CancelReturn handles the buyer abandoning payment at the gateway
func (h *Handler) CancelReturn(c *gin.Context) {
	order, err := h.OrderService.Cancel(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
