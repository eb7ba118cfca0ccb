package public

import (
	"errors"

	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/payment/webtopay"
	"github.com/soaringcoupons/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentCallback handles the asynchronous WebToPay notification. The
// gateway retries until it reads the success body, so every verified
// terminal outcome must acknowledge.
func (h *Handler) PaymentCallback(c *gin.Context) {
	log := requestLog(c)
	form, err := parseCallbackForm(c)
	if err != nil {
		log.Warnw("webtopay_callback_form_parse_failed", "error", err)
		c.String(200, constants.WebToPayCallbackFail)
		return
	}
	log.Infow("webtopay_callback_received",
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
	)

	order, err := h.CheckoutService.HandleCallback(form)
	if err != nil {
		switch {
		case errors.Is(err, webtopay.ErrSignatureInvalid), errors.Is(err, webtopay.ErrDataInvalid):
			log.Warnw("webtopay_callback_signature_invalid", "error", err)
		case errors.Is(err, service.ErrOrderNotFound):
			log.Warnw("webtopay_callback_order_not_found", "error", err)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			log.Warnw("webtopay_callback_order_status_invalid", "error", err)
		case errors.Is(err, service.ErrPaymentMismatch):
			log.Warnw("webtopay_callback_amount_mismatch", "error", err)
		default:
			log.Errorw("webtopay_callback_handle_failed", "error", err)
		}
		c.String(200, constants.WebToPayCallbackFail)
		return
	}

	if order != nil {
		log.Infow("webtopay_callback_processed",
			"order_id", order.ID,
			"status", order.Status,
		)
	}
	c.String(200, constants.WebToPayCallbackSuccess)
}

func parseCallbackForm(c *gin.Context) (map[string][]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	if len(c.Request.PostForm) > 0 {
		return c.Request.PostForm, nil
	}
	return c.Request.Form, nil
}
