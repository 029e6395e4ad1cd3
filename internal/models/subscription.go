package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubscriptionPackage struct {
	BaseModel
	Name            string          `gorm:"not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration        PackageDuration `gorm:"type:varchar(20);not null" json:"duration"`
	DailySwipeLimit int             `gorm:"not null" json:"daily_swipe_limit"`

	// Feature flags
	AllowBadge       bool `gorm:"default:false" json:"allow_badge"`
	CanSeeLikes      bool `gorm:"default:false" json:"can_see_likes"`
	PriorityMatching bool `gorm:"default:false" json:"priority_matching"`

	IsActive bool `gorm:"default:true" json:"is_active"`
	IsHidden bool `gorm:"default:false" json:"is_hidden"`
}

// SubscriptionPayment links a Cashfree order to a user and package.
// Created pending at checkout, completed exactly once on verification.
type SubscriptionPayment struct {
	BaseModel
	UserID            string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PackageID         string          `gorm:"type:uuid;not null;index" json:"package_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CashfreeOrderID   string          `gorm:"uniqueIndex;not null" json:"cashfree_order_id"`
	CashfreePaymentID string          `json:"cashfree_payment_id"`
	Status            PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	OrderTags         datatypes.JSON  `json:"order_tags"`
	PaidAt            *time.Time      `json:"paid_at"`

	// Relations
	Package SubscriptionPackage `gorm:"foreignKey:PackageID" json:"-"`
}
