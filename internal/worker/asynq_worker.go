package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/provider"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer async task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers the task handlers
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCouponEmail, c.handleCouponEmail)
}

func (c *Consumer) handleCouponEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_coupon_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CouponEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_coupon_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.CouponID == "" {
		logger.Debugw("worker_coupon_email_skip_invalid_payload")
		return nil
	}

	coupon, err := c.CouponRepo.GetByID(payload.CouponID)
	if err != nil {
		logger.Warnw("worker_coupon_email_fetch_coupon_failed", "coupon_id", payload.CouponID, "error", err)
		return err
	}
	if coupon == nil {
		logger.Debugw("worker_coupon_email_skip_coupon_not_found", "coupon_id", payload.CouponID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(coupon.OrderID)
	if err != nil {
		logger.Warnw("worker_coupon_email_fetch_order_failed", "coupon_id", coupon.ID, "order_id", coupon.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_coupon_email_skip_order_not_found", "coupon_id", coupon.ID, "order_id", coupon.OrderID)
		return nil
	}
	receiverEmail := strings.TrimSpace(order.PayerEmail)
	if receiverEmail == "" {
		logger.Debugw("worker_coupon_email_skip_empty_receiver", "coupon_id", coupon.ID, "order_id", order.ID)
		return nil
	}

	couponType, err := c.CouponTypeRepo.GetByID(coupon.CouponTypeID)
	if err != nil {
		logger.Warnw("worker_coupon_email_fetch_type_failed", "coupon_id", coupon.ID, "coupon_type", coupon.CouponTypeID, "error", err)
		return err
	}
	if couponType == nil {
		logger.Debugw("worker_coupon_email_skip_type_not_found", "coupon_id", coupon.ID, "coupon_type", coupon.CouponTypeID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_coupon_email_skip_email_service_nil", "coupon_id", coupon.ID)
		return nil
	}

	input := service.CouponEmailInput{
		CouponID:     coupon.ID,
		TypeTitle:    couponType.Title,
		WelcomeText:  couponType.WelcomeText,
		ValidityText: couponType.ValidityCondText,
		Expires:      service.FormatExpires(coupon),
		PayerName:    order.PayerName,
	}
	if err := c.EmailService.SendCouponEmail(receiverEmail, input); err != nil {
		logger.Warnw("worker_coupon_email_send_failed",
			"coupon_id", coupon.ID,
			"order_id", order.ID,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	return nil
}
