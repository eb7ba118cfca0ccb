package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/http/response"
	"github.com/soaringcoupons/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders admin order listing
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		CouponType: strings.TrimSpace(c.Query("coupon_type")),
		PayerEmail: strings.TrimSpace(c.Query("payer_email")),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := strings.TrimSpace(c.Query("created_from")); raw != "" {
		parsed, err := time.Parse(expiresDateLayout, raw)
		if err != nil {
			response.BadRequest(c, "invalid created_from date, expected YYYY-MM-DD")
			return
		}
		filter.CreatedFrom = &parsed
	}
	if raw := strings.TrimSpace(c.Query("created_to")); raw != "" {
		parsed, err := time.Parse(expiresDateLayout, raw)
		if err != nil {
			response.BadRequest(c, "invalid created_to date, expected YYYY-MM-DD")
			return
		}
		end := parsed.AddDate(0, 0, 1)
		filter.CreatedTo = &end
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetOrder admin order detail
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.Get(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder cancels a pending order
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.OrderService.Cancel(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_cancelled", "order_id", order.ID)
	response.Success(c, order)
}
