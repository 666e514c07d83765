package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a one-shot redemption code that extends a user's subscription
// window by one year. Codes are stored uppercase.
//
// UsageLimit/UsedCount are persisted for future multi-use coupons but the
// redemption path only ever flips IsActive off on first use.
type Coupon struct {
	gorm.Model
	Code       string    `gorm:"unique;not null" json:"code"`
	Amount     float64   `gorm:"default:0" json:"amount"`
	ExpiryDate time.Time `gorm:"not null" json:"expiry_date"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	UsageLimit int       `gorm:"default:1" json:"usage_limit"`
	UsedCount  int       `gorm:"default:0" json:"used_count"`
	CreatedBy  uint      `gorm:"index" json:"created_by"`
	IsDeleted  bool      `gorm:"default:false"`
}
