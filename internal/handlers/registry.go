package handlers

import (
	"festmatch_backend/internal/services"
	"festmatch_backend/internal/validator"
)

// AppHandlers holds every handler in the application.
type AppHandlers struct {
	Auth         *AuthHandler
	Payout       *PayoutHandler
	Subscription *SubscriptionHandler
	Kyc          *KycHandler
	Report       *ReportHandler
	Event        *EventHandler
	Booking      *BookingHandler
	BankAccount  *BankAccountHandler
}

func NewAppHandlers(v *validator.Validator, sc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		Auth:         NewAuthHandler(base, sc.Auth),
		Payout:       NewPayoutHandler(base, sc.Payout),
		Subscription: NewSubscriptionHandler(base, sc.Subscription),
		Kyc:          NewKycHandler(base, sc.Kyc),
		Report:       NewReportHandler(base, sc.Report),
		Event:        NewEventHandler(base, sc.Event, sc.Booking),
		Booking:      NewBookingHandler(base, sc.Booking),
		BankAccount:  NewBankAccountHandler(base, sc.BankAccount),
	}
}
