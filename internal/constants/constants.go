package constants

// Order lifecycle states
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Coupon lifecycle states
const (
	CouponStatusActive = "active"
	CouponStatusUsed   = "used"
)

// Payment providers
const (
	PaymentProviderWebToPay = "webtopay"
)

// WebToPay callback acknowledgement bodies
const (
	WebToPayCallbackSuccess = "OK"
	WebToPayCallbackFail    = "ERROR"
)

// Queue and task names
const (
	QueueDefault    = "default"
	TaskCouponEmail = "coupon:email"
)

// Counter keys
const (
	CounterOrder = "order"
)

// Cache keys
const (
	CacheKeyCouponTypes = "coupon_types"
)
