package service

import (
	"strings"

	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/payment/webtopay"
	"github.com/soaringcoupons/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutService gateway-facing payment flow
type CheckoutService struct {
	gatewayConfig  *webtopay.Config
	shopBaseURL    string
	orderService   *OrderService
	couponTypeRepo repository.CouponTypeRepository
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(gatewayConfig *webtopay.Config, shopBaseURL string, orderService *OrderService, couponTypeRepo repository.CouponTypeRepository) *CheckoutService {
	return &CheckoutService{
		gatewayConfig:  gatewayConfig,
		shopBaseURL:    strings.TrimRight(strings.TrimSpace(shopBaseURL), "/"),
		orderService:   orderService,
		couponTypeRepo: couponTypeRepo,
	}
}

// StartPayment builds the signed gateway redirect for a pending order
func (s *CheckoutService) StartPayment(orderID string) (string, error) {
	order, err := s.orderService.Get(orderID)
	if err != nil {
		return "", err
	}
	if order.Status != constants.OrderStatusPending {
		return "", ErrOrderStatusInvalid
	}

	couponType, err := s.couponTypeRepo.GetByID(order.CouponTypeID)
	if err != nil {
		return "", err
	}
	if couponType == nil {
		return "", ErrCouponTypeNotFound
	}

	redirect, err := webtopay.BuildRedirectURL(s.gatewayConfig, webtopay.PaymentRequest{
		OrderID:     order.ID,
		AmountCents: orderTotal(order).Shift(2).IntPart(),
		Currency:    order.Currency,
		Country:     "LT",
		Language:    "LIT",
		PayText:     couponType.Title,
		AcceptURL:   s.shopBaseURL + "/orders/" + order.ID + "/accept",
		CancelURL:   s.shopBaseURL + "/orders/" + order.ID + "/cancel",
		CallbackURL: s.shopBaseURL + "/api/payments/webtopay/callback",
	})
	if err != nil {
		return "", err
	}
	return redirect, nil
}

// HandleCallback verifies a gateway notification and settles the order.
// A non-success status is acknowledged without touching the order.
func (s *CheckoutService) HandleCallback(form map[string][]string) (*models.Order, error) {
	callback, err := webtopay.VerifyCallback(s.gatewayConfig, form)
	if err != nil {
		return nil, err
	}
	if !callback.Paid() {
		logger.Infow("webtopay_callback_not_paid",
			"order_id", callback.OrderID,
			"status", callback.Status,
		)
		return nil, nil
	}

	order, err := s.orderService.Get(callback.OrderID)
	if err != nil {
		return nil, err
	}

	// The gateway reports the paid amount in minor units.
	paidAmount := decimal.NewFromInt(callback.PayAmountCents).Shift(-2)
	if !paidAmount.Equal(orderTotal(order)) || !strings.EqualFold(callback.PayCurrency, order.Currency) {
		logger.Warnw("webtopay_callback_amount_mismatch",
			"order_id", order.ID,
			"expected_amount", orderTotal(order).StringFixed(2),
			"expected_currency", order.Currency,
			"paid_amount", paidAmount.StringFixed(2),
			"paid_currency", callback.PayCurrency,
		)
		return nil, ErrPaymentMismatch
	}

	// The test flag is fixed at creation time; the gateway's copy is only
	// checked for drift, never written back.
	if callback.Test != order.Test {
		logger.Warnw("webtopay_callback_test_flag_mismatch",
			"order_id", order.ID,
			"order_test", order.Test,
			"callback_test", callback.Test,
		)
	}

	return s.orderService.ProcessPayment(ProcessPaymentInput{
		OrderID:      order.ID,
		PaidAmount:   models.NewMoneyFromDecimal(paidAmount),
		PaidCurrency: strings.ToUpper(callback.PayCurrency),
		PayerName:    callback.PayerName,
		PayerSurname: callback.PayerSurname,
		PayerEmail:   callback.PayerEmail,
		Provider:     constants.PaymentProviderWebToPay,
	})
}

func orderTotal(order *models.Order) decimal.Decimal {
	quantity := order.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return order.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))
}
