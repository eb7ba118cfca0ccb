package public

import (
	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListCouponTypes lists the coupon types on sale
func (h *Handler) ListCouponTypes(c *gin.Context) {
	couponTypes, err := h.CatalogService.ListTypes(c.Request.Context())
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "catalog unavailable", err)
		return
	}
	response.Success(c, couponTypes)
}

// GetCouponType fetches one coupon type
func (h *Handler) GetCouponType(c *gin.Context) {
	couponType, err := h.CatalogService.GetType(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, couponType)
}
