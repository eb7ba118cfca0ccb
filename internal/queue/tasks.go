package queue

import (
	"encoding/json"

	"github.com/soaringcoupons/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCouponEmail coupon delivery email task
	TaskCouponEmail = constants.TaskCouponEmail
)

// CouponEmailPayload coupon delivery email task payload
type CouponEmailPayload struct {
	CouponID string `json:"coupon_id"`
}

// NewCouponEmailTask creates a coupon delivery email task
func NewCouponEmailTask(payload CouponEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCouponEmail, body), nil
}
