package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is a withdrawal request against the user's wallet.
// Transitions: pending -> completed (balance debited) or pending -> failed.
// Bank fields are snapshotted from the KYC record (hosts) or a bank account
// (referrers) at request time.
type Payout struct {
	BaseModel
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      PayoutStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RequestedAt time.Time       `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time      `json:"processed_at"`

	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// WalletTransaction is the append-only ledger behind User.WalletBalance.
// Amount is positive for credits and negative for debits; every balance
// mutation writes exactly one row in the same database transaction.
type WalletTransaction struct {
	BaseModel
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type      WalletTxType    `gorm:"type:varchar(30);not null;index" json:"type"`
	Reference string          `gorm:"size:128" json:"reference"`
}
