package models

import (
	"time"
)

// Order a purchase of one coupon type, possibly several coupons at once
type Order struct {
	ID           string `gorm:"primarykey;type:varchar(32)" json:"id"` // year + counter + random digits
	CouponTypeID string `gorm:"index;not null" json:"coupon_type_id"`
	Quantity     int    `gorm:"not null;default:1" json:"quantity"`
	// Price and currency are snapshots taken at creation time; later catalog
	// changes never affect an existing order.
	Price    Money  `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Currency string `gorm:"type:varchar(8);not null" json:"currency"`
	Status   string `gorm:"index;not null" json:"status"` // pending / paid / cancelled

	// Fields below are populated only when the gateway confirms payment.
	PaidAmount      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"paid_amount"`
	PaidCurrency    string     `gorm:"type:varchar(8)" json:"paid_currency,omitempty"`
	PayerName       string     `json:"payer_name,omitempty"`
	PayerSurname    string     `json:"payer_surname,omitempty"`
	PayerEmail      string     `gorm:"index" json:"payer_email,omitempty"`
	PaymentProvider string     `gorm:"type:varchar(32)" json:"payment_provider,omitempty"`
	Test            bool       `gorm:"not null;default:false" json:"test"`
	PaidAt          *time.Time `gorm:"index" json:"paid_at"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Coupons []Coupon `gorm:"foreignKey:OrderID" json:"coupons,omitempty"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}
