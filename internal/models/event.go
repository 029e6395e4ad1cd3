package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	BaseModel
	HostID      string          `gorm:"type:uuid;not null;index" json:"host_id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Venue       string          `gorm:"not null" json:"venue"`
	City        string          `gorm:"index" json:"city"`
	StartsAt    time.Time       `gorm:"not null" json:"starts_at"`
	TicketPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"ticket_price"`
	Capacity    int             `gorm:"not null" json:"capacity"`
	TicketsSold int             `gorm:"default:0" json:"tickets_sold"`
	Status      EventStatus     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
}

// Booking holds purchased tickets for an event. TicketCode is the value
// encoded into the QR presented at the gate; check-in flips the status
// exactly once.
type Booking struct {
	BaseModel
	EventID      string          `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	TicketCode   string          `gorm:"uniqueIndex;not null" json:"ticket_code"`
	ReferralCode string          `gorm:"index" json:"referral_code,omitempty"`
	Status       BookingStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CheckedInAt  *time.Time      `json:"checked_in_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}
