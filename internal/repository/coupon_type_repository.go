package repository

import (
	"errors"

	"github.com/soaringcoupons/internal/models"

	"gorm.io/gorm"
)

// CouponTypeRepository coupon type data access interface
type CouponTypeRepository interface {
	GetByID(id string) (*models.CouponType, error)
	ListActive() ([]models.CouponType, error)
	List() ([]models.CouponType, error)
	Create(couponType *models.CouponType) error
	Update(couponType *models.CouponType) error
	WithTx(tx *gorm.DB) *GormCouponTypeRepository
}

// GormCouponTypeRepository GORM implementation
type GormCouponTypeRepository struct {
	db *gorm.DB
}

// NewCouponTypeRepository creates a coupon type repository
func NewCouponTypeRepository(db *gorm.DB) *GormCouponTypeRepository {
	return &GormCouponTypeRepository{db: db}
}

// WithTx binds to a transaction
func (r *GormCouponTypeRepository) WithTx(tx *gorm.DB) *GormCouponTypeRepository {
	if tx == nil {
		return r
	}
	return &GormCouponTypeRepository{db: tx}
}

// GetByID fetches a coupon type by its slug
func (r *GormCouponTypeRepository) GetByID(id string) (*models.CouponType, error) {
	var couponType models.CouponType
	if err := r.db.Where("id = ?", id).First(&couponType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &couponType, nil
}

// ListActive lists the published catalog
func (r *GormCouponTypeRepository) ListActive() ([]models.CouponType, error) {
	couponTypes := make([]models.CouponType, 0)
	err := r.db.
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&couponTypes).Error
	if err != nil {
		return nil, err
	}
	return couponTypes, nil
}

// List lists all coupon types including inactive ones
func (r *GormCouponTypeRepository) List() ([]models.CouponType, error) {
	couponTypes := make([]models.CouponType, 0)
	err := r.db.
		Order("sort_order ASC, id ASC").
		Find(&couponTypes).Error
	if err != nil {
		return nil, err
	}
	return couponTypes, nil
}

// Create inserts a coupon type
func (r *GormCouponTypeRepository) Create(couponType *models.CouponType) error {
	return r.db.Create(couponType).Error
}

// Update saves a coupon type
func (r *GormCouponTypeRepository) Update(couponType *models.CouponType) error {
	return r.db.Save(couponType).Error
}
