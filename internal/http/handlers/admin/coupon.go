package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/soaringcoupons/internal/http/handlers/shared"
	"github.com/soaringcoupons/internal/http/response"
	"github.com/soaringcoupons/internal/repository"
	"github.com/soaringcoupons/internal/service"

	"github.com/gin-gonic/gin"
)

const expiresDateLayout = "2006-01-02"

// ListCoupons admin coupon listing
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		CouponType: strings.TrimSpace(c.Query("coupon_type")),
		OrderID:    strings.TrimSpace(c.Query("order_id")),
		Page:       page,
		PageSize:   pageSize,
	}

	coupons, total, err := h.CouponService.List(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "coupon list failed", err)
		return
	}
	response.SuccessWithPage(c, coupons, handlershared.BuildPagination(page, pageSize, total))
}

// GetCoupon admin coupon detail
func (h *Handler) GetCoupon(c *gin.Context) {
	coupon, err := h.CouponService.Get(c.Param("id"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, coupon)
}

// SpawnCouponsRequest promotional batch request body
type SpawnCouponsRequest struct {
	CouponTypeID string `json:"coupon_type_id" binding:"required"`
	Count        int    `json:"count" binding:"required"`
	Email        string `json:"email"`
	Expires      string `json:"expires" binding:"required"`
}

// SpawnCoupons issues a promotional batch of coupons without a purchase
func (h *Handler) SpawnCoupons(c *gin.Context) {
	var req SpawnCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	expires, err := time.Parse(expiresDateLayout, req.Expires)
	if err != nil {
		response.BadRequest(c, "invalid expires date, expected YYYY-MM-DD")
		return
	}

	coupons, err := h.CouponService.Spawn(service.SpawnInput{
		CouponTypeID: req.CouponTypeID,
		Count:        req.Count,
		Email:        req.Email,
		Expires:      expires,
	})
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}

	requestLog(c).Infow("admin_coupons_spawned",
		"coupon_type", req.CouponTypeID,
		"count", len(coupons),
	)
	response.Success(c, coupons)
}

// UseCoupon redeems a coupon at the airfield
func (h *Handler) UseCoupon(c *gin.Context) {
	coupon, err := h.CouponService.Use(c.Param("id"), time.Now())
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_used", "coupon_id", coupon.ID)
	response.Success(c, coupon)
}

// ListExpirations returns the candidate expiration dates after a reference
// date, used by the spawn form
func (h *Handler) ListExpirations(c *gin.Context) {
	after := time.Now()
	if raw := strings.TrimSpace(c.Query("after")); raw != "" {
		parsed, err := time.Parse(expiresDateLayout, raw)
		if err != nil {
			response.BadRequest(c, "invalid after date, expected YYYY-MM-DD")
			return
		}
		after = parsed
	}

	count, _ := strconv.Atoi(c.DefaultQuery("count", "6"))
	if count < 1 || count > 24 {
		count = 6
	}

	candidates := h.CouponService.ValidExpirations(after, count)
	dates := make([]string, 0, len(candidates))
	for _, d := range candidates {
		dates = append(dates, d.Format(expiresDateLayout))
	}
	response.Success(c, gin.H{"expirations": dates})
}
