package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Phone        string     `json:"phone"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Wallet. Credited by booking earnings and referral commissions,
	// debited only by approved payouts.
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"wallet_balance"`

	// Subscription state. A nil SubscriptionEndDate with a non-nil
	// ActivePackageID means a lifetime package.
	ActivePackageID     *string    `gorm:"type:uuid;index" json:"active_package_id"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	DailySwipeRemaining int        `gorm:"default:0" json:"daily_swipe_remaining"`
	FreeSwipesRemaining int        `gorm:"default:3" json:"free_swipes_remaining"`
	LastSwipeReset      *time.Time `json:"last_swipe_reset"`

	// Referral attribution. ReferralCode is set for referrer accounts.
	ReferralCode string  `gorm:"index" json:"referral_code,omitempty"`
	ReferredBy   *string `gorm:"type:uuid" json:"referred_by,omitempty"`

	// Relations
	ActivePackage *SubscriptionPackage `gorm:"foreignKey:ActivePackageID" json:"active_package,omitempty"`
	BankAccounts  []BankAccount        `gorm:"foreignKey:UserID" json:"-"`
	HostKyc       *HostKyc             `gorm:"foreignKey:UserID" json:"-"`
	DatingKyc     *DatingKycRequest    `gorm:"foreignKey:UserID" json:"-"`
}

// BankAccount holds a referrer's payout destination. Payouts snapshot these
// fields at request time rather than referencing the row.
type BankAccount struct {
	BaseModel
	UserID        string `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountHolder string `gorm:"not null" json:"account_holder"`
	AccountNumber string `gorm:"not null" json:"account_number"`
	IFSC          string `gorm:"not null" json:"ifsc"`
	BankName      string `gorm:"not null" json:"bank_name"`
}
