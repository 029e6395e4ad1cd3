package email

import (
	"festmatch_backend/internal/logger"

	"github.com/shopspring/decimal"
)

// NoopProvider logs instead of sending. Used in tests and when SMTP is not
// configured.
type NoopProvider struct{}

func (NoopProvider) SendPayoutRequested(name, to string, amount decimal.Decimal, payoutID string) error {
	logger.Debug("email skipped: payout requested", "to", to, "payout_id", payoutID)
	return nil
}

func (NoopProvider) SendPayoutApproved(name, to string, amount decimal.Decimal, accountNumber, bankName string) error {
	logger.Debug("email skipped: payout approved", "to", to)
	return nil
}

func (NoopProvider) SendPayoutRejected(name, to string, amount decimal.Decimal) error {
	logger.Debug("email skipped: payout rejected", "to", to)
	return nil
}

func (NoopProvider) SendKycDecision(name, to, queue string, approved bool, reason string) error {
	logger.Debug("email skipped: kyc decision", "to", to, "queue", queue, "approved", approved)
	return nil
}

func (NoopProvider) SendBookingConfirmed(name, to, eventTitle string, quantity int, amount decimal.Decimal, ticketCode string) error {
	logger.Debug("email skipped: booking confirmed", "to", to, "event", eventTitle)
	return nil
}
