package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/soaringcoupons/internal/constants"
	"github.com/soaringcoupons/internal/logger"
	"github.com/soaringcoupons/internal/models"
	"github.com/soaringcoupons/internal/queue"
	"github.com/soaringcoupons/internal/repository"

	"gorm.io/gorm"
)

// CouponService coupon issuance and redemption
type CouponService struct {
	couponRepo     repository.CouponRepository
	orderRepo      repository.OrderRepository
	couponTypeRepo repository.CouponTypeRepository
	counterRepo    repository.CounterRepository
	queueClient    *queue.Client
	seasonMonths   map[time.Month]bool
}

// NewCouponService creates a coupon service
func NewCouponService(couponRepo repository.CouponRepository, orderRepo repository.OrderRepository, couponTypeRepo repository.CouponTypeRepository, counterRepo repository.CounterRepository, queueClient *queue.Client, seasonMonths []int) *CouponService {
	season := make(map[time.Month]bool, len(seasonMonths))
	for _, m := range seasonMonths {
		if m >= 1 && m <= 12 {
			season[time.Month(m)] = true
		}
	}
	return &CouponService{
		couponRepo:     couponRepo,
		orderRepo:      orderRepo,
		couponTypeRepo: couponTypeRepo,
		counterRepo:    counterRepo,
		queueClient:    queueClient,
		seasonMonths:   season,
	}
}

// ValidExpirations returns the next count candidate expiration dates after
// the given date. Candidates are first-of-month dates falling inside the
// flying season, strictly after the reference date.
func (s *CouponService) ValidExpirations(after time.Time, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	if count <= 0 || len(s.seasonMonths) == 0 {
		return dates
	}
	cursor := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, after.Location())
	for len(dates) < count {
		cursor = cursor.AddDate(0, 1, 0)
		if !cursor.After(after) {
			continue
		}
		if s.seasonMonths[cursor.Month()] {
			dates = append(dates, cursor)
		}
	}
	return dates
}

// DefaultExpiration picks the expiration for a freshly issued coupon: the
// farthest candidate within the type's expiration horizon.
func (s *CouponService) DefaultExpiration(couponType *models.CouponType, now time.Time) (time.Time, error) {
	months := couponType.DefaultExpirationMonths
	if months <= 0 {
		months = 6
	}
	candidates := s.ValidExpirations(now, months)
	if len(candidates) == 0 {
		return time.Time{}, ErrNoValidExpiration
	}
	return candidates[len(candidates)-1], nil
}

// IssueForOrder creates the order's coupons inside the caller's transaction.
// A single-coupon order reuses the order id; larger orders get an -N suffix.
func (s *CouponService) IssueForOrder(tx *gorm.DB, order *models.Order, expires time.Time) ([]models.Coupon, error) {
	couponRepo := s.couponRepo.WithTx(tx)
	quantity := order.Quantity
	if quantity < 1 {
		quantity = 1
	}
	coupons := make([]models.Coupon, 0, quantity)
	for i := 1; i <= quantity; i++ {
		id := order.ID
		if quantity > 1 {
			id = fmt.Sprintf("%s-%d", order.ID, i)
		}
		coupon := models.Coupon{
			ID:           id,
			OrderID:      order.ID,
			CouponTypeID: order.CouponTypeID,
			Status:       constants.CouponStatusActive,
			Expires:      expires,
		}
		if err := couponRepo.Create(&coupon); err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

// Get fetches a coupon
func (s *CouponService) Get(id string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List admin coupon listing
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.ListAdmin(filter)
}

// Use redeems an active coupon. The row is locked so two staff members
// scanning the same coupon cannot both succeed.
func (s *CouponService) Use(id string, now time.Time) (*models.Coupon, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCouponNotFound
	}

	var used *models.Coupon
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		couponRepo := s.couponRepo.WithTx(tx)
		coupon, err := couponRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if coupon == nil {
			return ErrCouponNotFound
		}
		if coupon.Status != constants.CouponStatusActive {
			return ErrCouponStatusInvalid
		}
		if coupon.Expires.Before(now) {
			return ErrCouponExpired
		}
		coupon.Status = constants.CouponStatusUsed
		coupon.UsedAt = &now
		if err := couponRepo.Update(coupon); err != nil {
			return err
		}
		used = coupon
		return nil
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// SpawnInput promotional batch issuance input
type SpawnInput struct {
	CouponTypeID string
	Count        int
	Email        string
	Expires      time.Time
}

// Spawn issues a batch of coupons without a purchase. Each coupon is backed
// by its own unpaid order so downstream reporting stays uniform.
func (s *CouponService) Spawn(input SpawnInput) ([]models.Coupon, error) {
	if input.Count < 1 {
		return nil, fmt.Errorf("%w: count must be positive", ErrValidation)
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
	}
	if input.Expires.IsZero() {
		return nil, fmt.Errorf("%w: expires is required", ErrValidation)
	}

	couponType, err := s.couponTypeRepo.GetByID(strings.TrimSpace(input.CouponTypeID))
	if err != nil {
		return nil, err
	}
	if couponType == nil {
		return nil, ErrCouponTypeNotFound
	}

	coupons := make([]models.Coupon, 0, input.Count)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		counterRepo := s.counterRepo.WithTx(tx)
		for i := 0; i < input.Count; i++ {
			seq, err := counterRepo.Next(constants.CounterOrder)
			if err != nil {
				return err
			}
			id, err := generateOrderID(seq, time.Now())
			if err != nil {
				return err
			}
			order := models.Order{
				ID:           id,
				CouponTypeID: couponType.ID,
				Quantity:     1,
				Price:        couponType.Price,
				Currency:     couponType.Currency,
				Status:       constants.OrderStatusPending,
				PayerEmail:   email,
			}
			if err := orderRepo.Create(&order); err != nil {
				return err
			}
			issued, err := s.IssueForOrder(tx, &order, input.Expires)
			if err != nil {
				return err
			}
			coupons = append(coupons, issued...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if email != "" {
		for _, coupon := range coupons {
			if err := s.queueClient.EnqueueCouponEmail(queue.CouponEmailPayload{CouponID: coupon.ID}); err != nil {
				logger.Warnw("coupon_enqueue_email_failed",
					"coupon_id", coupon.ID,
					"error", err,
				)
			}
		}
	}
	return coupons, nil
}
