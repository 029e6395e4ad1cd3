package services

import (
	"festmatch_backend/internal/config"
	"festmatch_backend/internal/email"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/internal/services/payment"

	"github.com/shopspring/decimal"
)

// ServiceContainer wires every service over a shared set of repositories.
// The db handle is not held here; handlers pass the per-request handle into
// each call.
type ServiceContainer struct {
	Auth         AuthService
	Payout       PayoutService
	Subscription SubscriptionService
	Kyc          KycService
	Report       ReportService
	Event        EventService
	Booking      BookingService
	BankAccount  BankAccountService
}

func NewServiceContainer(cfg *config.Config, emailProvider email.Provider, gateway payment.Client) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	bankRepo := repositories.NewBankAccountRepository()
	packageRepo := repositories.NewPackageRepository()
	paymentRepo := repositories.NewPaymentRepository()
	payoutRepo := repositories.NewPayoutRepository()
	kycRepo := repositories.NewKycRepository()
	reportRepo := repositories.NewReportRepository()
	eventRepo := repositories.NewEventRepository()
	bookingRepo := repositories.NewBookingRepository()

	return &ServiceContainer{
		Auth: NewAuthService(userRepo),
		Payout: NewPayoutService(
			payoutRepo, userRepo, kycRepo, bankRepo, emailProvider,
			decimal.NewFromFloat(cfg.Platform.MinWithdrawal),
		),
		Subscription: NewSubscriptionService(
			packageRepo, paymentRepo, userRepo, gateway,
			cfg.Platform.FreeSwipesOnRefresh,
		),
		Kyc:    NewKycService(kycRepo, userRepo, emailProvider),
		Report: NewReportService(reportRepo, userRepo),
		Event:  NewEventService(eventRepo, userRepo, kycRepo),
		Booking: NewBookingService(
			bookingRepo, eventRepo, userRepo, emailProvider,
			decimal.NewFromFloat(cfg.Platform.PlatformFeePercent),
			decimal.NewFromFloat(cfg.Platform.ReferralFeePercent),
		),
		BankAccount: NewBankAccountService(bankRepo, userRepo),
	}
}
