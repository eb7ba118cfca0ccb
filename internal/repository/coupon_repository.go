package repository

import (
	"errors"

	"github.com/soaringcoupons/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponListFilter admin coupon listing filter
type CouponListFilter struct {
	Status     string
	CouponType string
	OrderID    string
	Page       int
	PageSize   int
}

// CouponRepository coupon data access interface
type CouponRepository interface {
	Create(coupon *models.Coupon) error
	GetByID(id string) (*models.Coupon, error)
	GetByIDForUpdate(id string) (*models.Coupon, error)
	ListByOrder(orderID string) ([]models.Coupon, error)
	ListAdmin(filter CouponListFilter) ([]models.Coupon, int64, error)
	Update(coupon *models.Coupon) error
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository GORM implementation
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a coupon repository
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx binds to a transaction
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// Create inserts a coupon
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// GetByID fetches a coupon
func (r *GormCouponRepository) GetByID(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByIDForUpdate fetches a coupon holding a row lock; call inside a transaction
func (r *GormCouponRepository) GetByIDForUpdate(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// ListByOrder lists the coupons issued for an order
func (r *GormCouponRepository) ListByOrder(orderID string) ([]models.Coupon, error) {
	coupons := make([]models.Coupon, 0)
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// ListAdmin admin coupon listing
func (r *GormCouponRepository) ListAdmin(filter CouponListFilter) ([]models.Coupon, int64, error) {
	query := r.db.Model(&models.Coupon{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CouponType != "" {
		query = query.Where("coupon_type_id = ?", filter.CouponType)
	}
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	coupons := make([]models.Coupon, 0)
	if err := query.Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// Update saves a coupon
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}
