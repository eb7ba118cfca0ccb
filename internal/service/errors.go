package service

import "errors"

// Service-level sentinel errors, mapped to response codes by the handlers.
var (
	ErrCouponTypeNotFound  = errors.New("coupon type not found")
	ErrCouponTypeInactive  = errors.New("coupon type not on sale")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusInvalid  = errors.New("order status does not allow this operation")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponStatusInvalid = errors.New("coupon status does not allow this operation")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrPaymentMismatch     = errors.New("payment amount or currency mismatch")
	ErrValidation          = errors.New("invalid input")
	ErrNoValidExpiration   = errors.New("no valid expiration date available")

	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
