package shared

import (
	"errors"

	"github.com/soaringcoupons/internal/http/response"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger carrying the request id
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError writes an error response, logging the original error when present
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError maps a service sentinel error onto the response envelope
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponTypeNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCouponNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrOrderStatusInvalid),
		errors.Is(err, service.ErrCouponStatusInvalid),
		errors.Is(err, service.ErrCouponExpired),
		errors.Is(err, service.ErrCouponTypeInactive):
		response.Error(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrNoValidExpiration):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		RespondError(c, response.CodeInternal, "internal error", err)
	}
}

// NormalizePagination normalizes page parameters
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// BuildPagination builds page metadata
func BuildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
