package models

import (
	"time"
)

// Coupon an issued flight coupon, redeemable until it expires
type Coupon struct {
	ID           string     `gorm:"primarykey;type:varchar(40)" json:"id"` // order id, "-N" suffix when the order holds several
	OrderID      string     `gorm:"index;not null" json:"order_id"`
	CouponTypeID string     `gorm:"index;not null" json:"coupon_type_id"`
	Status       string     `gorm:"index;not null" json:"status"` // active / used
	Expires      time.Time  `gorm:"index;not null" json:"expires"`
	UsedAt       *time.Time `json:"used_at"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Coupon) TableName() string {
	return "coupons"
}
