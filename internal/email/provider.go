package email

import "github.com/shopspring/decimal"

// Provider sends transactional notifications. Implementations must be safe
// for concurrent use; send failures are logged by callers and never fail the
// business operation that triggered them.
type Provider interface {
	SendPayoutRequested(name, to string, amount decimal.Decimal, payoutID string) error
	SendPayoutApproved(name, to string, amount decimal.Decimal, accountNumber, bankName string) error
	SendPayoutRejected(name, to string, amount decimal.Decimal) error
	SendKycDecision(name, to, queue string, approved bool, reason string) error
	SendBookingConfirmed(name, to, eventTitle string, quantity int, amount decimal.Decimal, ticketCode string) error
}

// Config carries SMTP settings for the gomail provider.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string
}
