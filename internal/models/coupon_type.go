package models

import (
	"time"
)

// CouponType a sellable flight coupon type
type CouponType struct {
	ID                      string    `gorm:"primarykey;type:varchar(64)" json:"id"` // slug, e.g. "training"
	Title                   string    `gorm:"not null" json:"title"`
	Description             string    `gorm:"type:text" json:"description"`
	WelcomeText             string    `gorm:"type:text" json:"welcome_text"`       // included in the coupon email
	ValidityCondText        string    `gorm:"type:text" json:"validity_cond_text"` // redemption conditions shown on the coupon
	Price                   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Currency                string    `gorm:"type:varchar(8);not null" json:"currency"`
	DefaultExpirationMonths int       `gorm:"not null;default:6" json:"default_expiration_months"`
	SortOrder               int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive                bool      `gorm:"index;not null;default:true" json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CouponType) TableName() string {
	return "coupon_types"
}
