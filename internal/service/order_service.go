package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/repository"

	"gorm.io/gorm"
)

// OrderService order lifecycle
type OrderService struct {
	orderRepo      repository.OrderRepository
	couponTypeRepo repository.CouponTypeRepository
	counterRepo    repository.CounterRepository
	couponService  *CouponService
	queueClient    *queue.Client
	testMode       bool
}

// NewOrderService creates an order service
func NewOrderService(orderRepo repository.OrderRepository, couponTypeRepo repository.CouponTypeRepository, counterRepo repository.CounterRepository, couponService *CouponService, queueClient *queue.Client, testMode bool) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		couponTypeRepo: couponTypeRepo,
		counterRepo:    counterRepo,
		couponService:  couponService,
		queueClient:    queueClient,
		testMode:       testMode,
	}
}

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusPaid:      true,
		constants.OrderStatusCancelled: true,
	},
}

func canTransition(from, to string) bool {
	nexts, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// CreateOrderInput order creation input
type CreateOrderInput struct {
	CouponTypeID string
	Quantity     int
}

// Create creates a pending order, snapshotting the current price
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	couponType, err := s.couponTypeRepo.GetByID(strings.TrimSpace(input.CouponTypeID))
	if err != nil {
		return nil, err
	}
	if couponType == nil {
		return nil, ErrCouponTypeNotFound
	}
	if !couponType.IsActive {
		return nil, ErrCouponTypeInactive
	}

	var order *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := s.counterRepo.WithTx(tx).Next(constants.CounterOrder)
		if err != nil {
			return err
		}
		id, err := generateOrderID(seq, time.Now())
		if err != nil {
			return err
		}
		order = &models.Order{
			ID:           id,
			CouponTypeID: couponType.ID,
			Quantity:     quantity,
			Price:        couponType.Price,
			Currency:     couponType.Currency,
			Status:       constants.OrderStatusPending,
			Test:         s.testMode,
		}
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"coupon_type", order.CouponTypeID,
		"quantity", order.Quantity,
	)
	return order, nil
}

// Get fetches an order with its coupons
func (s *OrderService) Get(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List admin order listing
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// Cancel cancels a pending order
func (s *OrderService) Cancel(id string) (*models.Order, error) {
	var cancelled *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !canTransition(order.Status, constants.OrderStatusCancelled) {
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"updated_at": now,
		}); err != nil {
			return err
		}
		order.Status = constants.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_cancelled", "order_id", cancelled.ID)
	return cancelled, nil
}

// ProcessPaymentInput confirmed payment details from the gateway
type ProcessPaymentInput struct {
	OrderID      string
	PaidAmount   models.Money
	PaidCurrency string
	PayerName    string
	PayerSurname string
	PayerEmail   string
	Provider     string
}

// ProcessPayment marks a pending order paid and issues its coupons. Status
// flip and coupon rows commit in one transaction; a second notification for
// the same order fails the pending check and changes nothing.
func (s *OrderService) ProcessPayment(input ProcessPaymentInput) (*models.Order, error) {
	var paid *models.Order
	var coupons []models.Coupon
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(strings.TrimSpace(input.OrderID))
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !canTransition(order.Status, constants.OrderStatusPaid) {
			return ErrOrderStatusInvalid
		}

		couponType, err := s.couponTypeRepo.WithTx(tx).GetByID(order.CouponTypeID)
		if err != nil {
			return err
		}
		if couponType == nil {
			return ErrCouponTypeNotFound
		}

		now := time.Now()
		expires, err := s.couponService.DefaultExpiration(couponType, now)
		if err != nil {
			return err
		}

		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusPaid, map[string]interface{}{
			"paid_amount":      input.PaidAmount,
			"paid_currency":    input.PaidCurrency,
			"payer_name":       input.PayerName,
			"payer_surname":    input.PayerSurname,
			"payer_email":      input.PayerEmail,
			"payment_provider": input.Provider,
			"paid_at":          now,
			"updated_at":       now,
		}); err != nil {
			return err
		}
		order.Status = constants.OrderStatusPaid
		order.PaidAmount = input.PaidAmount
		order.PaidCurrency = input.PaidCurrency
		order.PayerName = input.PayerName
		order.PayerSurname = input.PayerSurname
		order.PayerEmail = input.PayerEmail
		order.PaymentProvider = input.Provider
		order.PaidAt = &now

		coupons, err = s.couponService.IssueForOrder(tx, order, expires)
		if err != nil {
			return err
		}
		order.Coupons = coupons
		paid = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_paid",
		"order_id", paid.ID,
		"paid_amount", paid.PaidAmount.String(),
		"coupons", len(coupons),
	)
	for _, coupon := range coupons {
		if err := s.queueClient.EnqueueCouponEmail(queue.CouponEmailPayload{CouponID: coupon.ID}); err != nil {
			logger.Warnw("coupon_enqueue_email_failed",
				"coupon_id", coupon.ID,
				"order_id", paid.ID,
				"error", err,
			)
		}
	}
	return paid, nil
}

// generateOrderID builds an order id from the two-digit year, the counter
// sequence, and six random digits.
func generateOrderID(seq int64, now time.Time) (string, error) {
	suffix, err := randNumeric(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d%d%s", now.Year()%100, seq, suffix), nil
}

func randNumeric(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("random order digits: %w", err)
		}
		b.WriteString(n.String())
	}
	return b.String(), nil
}
