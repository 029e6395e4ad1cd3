package models

type UserRole string
type UserStatus string
type PackageDuration string
type PayoutStatus string
type PaymentStatus string
type KycStatus string
type KycDocType string
type ReportStatus string
type EventStatus string
type BookingStatus string
type WalletTxType string

const (
	UserRoleUser     UserRole = "user"
	UserRoleHost     UserRole = "host"
	UserRoleReferrer UserRole = "referrer"
	UserRoleAdmin    UserRole = "admin"

	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"

	DurationMonthly   PackageDuration = "monthly"
	DurationQuarterly PackageDuration = "quarterly"
	DurationYearly    PackageDuration = "yearly"
	DurationLifetime  PackageDuration = "lifetime"

	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"

	KycStatusNotStarted KycStatus = "not_started"
	KycStatusPending    KycStatus = "pending"
	KycStatusApproved   KycStatus = "approved"
	KycStatusRejected   KycStatus = "rejected"

	KycDocAadhaar        KycDocType = "aadhaar"
	KycDocPan            KycDocType = "pan"
	KycDocPassport       KycDocType = "passport"
	KycDocDrivingLicense KycDocType = "driving_license"

	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"

	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCancelled BookingStatus = "cancelled"

	WalletTxBookingEarning     WalletTxType = "booking_earning"
	WalletTxReferralCommission WalletTxType = "referral_commission"
	WalletTxPayout             WalletTxType = "payout"
)
