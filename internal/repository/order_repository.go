package repository

import (
	"errors"
	"time"

	"github.com/soaringcoupons/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderListFilter admin order listing filter
type OrderListFilter struct {
	Status      string
	CouponType  string
	PayerEmail  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// OrderRepository order data access interface
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByIDForUpdate(id string) (*models.Order, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id string, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM implementation
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds to a transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts an order
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID fetches an order with its coupons
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Coupons").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate fetches an order holding a row lock; call inside a transaction
func (r *GormOrderRepository) GetByIDForUpdate(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListAdmin admin order listing
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CouponType != "" {
		query = query.Where("coupon_type_id = ?", filter.CouponType)
	}
	if filter.PayerEmail != "" {
		query = query.Where("payer_email = ?", filter.PayerEmail)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orders := make([]models.Order, 0)
	if err := query.Preload("Coupons").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus updates the order status plus extra columns
func (r *GormOrderRepository) UpdateStatus(id string, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
