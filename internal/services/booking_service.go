package services

import (
	"errors"
	"time"

	"festmatch_backend/internal/email"
	"festmatch_backend/internal/logger"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookTicketsRequest struct {
	EventID      string `json:"event_id" validate:"required,uuid"`
	Quantity     int    `json:"quantity" validate:"required,gt=0,lte=10"`
	ReferralCode string `json:"referral_code" validate:"omitempty,len=8"`
}

type BookingService interface {
	BookTickets(db *gorm.DB, userID string, req *BookTicketsRequest) (*models.Booking, error)
	ConfirmBooking(db *gorm.DB, bookingID string) error
	VerifyTicket(db *gorm.DB, hostID, ticketCode string) (*models.Booking, error)
	ListMyBookings(db *gorm.DB, userID string) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo     repositories.BookingRepository
	eventRepo       repositories.EventRepository
	userRepo        repositories.UserRepository
	emailProvider   email.Provider
	platformFeePct  decimal.Decimal
	referralFeePct  decimal.Decimal
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	platformFeePct, referralFeePct decimal.Decimal,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailProvider:  emailProvider,
		platformFeePct: platformFeePct,
		referralFeePct: referralFeePct,
	}
}

// BookTickets creates a pending booking against a published event. Capacity
// is not reserved here; pending bookings that never confirm must not hold
// tickets back from paying buyers.
func (s *bookingService) BookTickets(db *gorm.DB, userID string, req *BookTicketsRequest) (*models.Booking, error) {
	event, err := s.eventRepo.FindByID(db, req.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.NewNotFoundError("booking", "Event not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if event.Status != models.EventStatusPublished {
		return nil, apperrors.NewInvalidStatusError("booking", "Event is not open for booking")
	}
	if event.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewConflictError("booking", "Event has already started")
	}
	if event.TicketsSold+req.Quantity > event.Capacity {
		return nil, apperrors.NewConflictError("booking", "Not enough tickets remaining")
	}

	if req.ReferralCode != "" {
		referrer, err := s.userRepo.FindByReferralCode(db, req.ReferralCode)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.NewBadRequestError("Unknown referral code")
			}
			return nil, apperrors.InternalError(err)
		}
		if referrer.ID == userID {
			return nil, apperrors.NewBadRequestError("You cannot use your own referral code")
		}
	}

	booking := &models.Booking{
		EventID:      event.ID,
		UserID:       userID,
		Quantity:     req.Quantity,
		Amount:       event.TicketPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		TicketCode:   generateShortCode(),
		ReferralCode: req.ReferralCode,
		Status:       models.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(db, booking); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return booking, nil
}

// ConfirmBooking settles a paid booking: tickets are reserved against
// capacity, the host is credited net of the platform fee, and the referrer
// (when a code was attached) earns the commission. All of it commits or none
// of it does.
func (s *bookingService) ConfirmBooking(db *gorm.DB, bookingID string) error {
	booking, err := s.bookingRepo.FindByID(db, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return apperrors.NewNotFoundError("booking", "Booking not found")
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.bookingRepo.Confirm(tx, bookingID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.NewInvalidStatusError("booking", "Booking is not pending")
		}

		reserved, err := s.eventRepo.ReserveTickets(tx, booking.EventID, booking.Quantity)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !reserved {
			return apperrors.NewConflictError("booking", "Event is sold out")
		}

		hundred := decimal.NewFromInt(100)
		hostShare := booking.Amount.
			Mul(hundred.Sub(s.platformFeePct)).
			Div(hundred).
			Round(2)
		if err := s.userRepo.CreditWallet(tx, booking.Event.HostID, hostShare, models.WalletTxBookingEarning, booking.ID); err != nil {
			return apperrors.InternalError(err)
		}

		if booking.ReferralCode != "" {
			referrer, err := s.userRepo.FindByReferralCode(tx, booking.ReferralCode)
			if err != nil {
				return apperrors.InternalError(err)
			}
			commission := booking.Amount.Mul(s.referralFeePct).Div(hundred).Round(2)
			if err := s.userRepo.CreditWallet(tx, referrer.ID, commission, models.WalletTxReferralCommission, booking.ID); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	buyer, err := s.userRepo.FindByID(db, booking.UserID)
	if err != nil {
		logger.WithError(err).Warn("booking confirmation email skipped", "booking_id", booking.ID)
		return nil
	}
	if err := s.emailProvider.SendBookingConfirmed(buyer.Name, buyer.Email, booking.Event.Title, booking.Quantity, booking.Amount, booking.TicketCode); err != nil {
		logger.WithError(err).Warn("failed to send booking confirmation email", "booking_id", booking.ID)
	}
	return nil
}

// VerifyTicket checks a ticket code in at the gate. Only the event's host
// can scan it, and a code that was already used reports as such rather than
// letting a second person through.
func (s *bookingService) VerifyTicket(db *gorm.DB, hostID, ticketCode string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByTicketCode(db, ticketCode)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.NewNotFoundError("booking", "Ticket not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if booking.Event.HostID != hostID {
		return nil, apperrors.NewForbiddenError("Ticket belongs to another host's event")
	}

	now := time.Now()
	ok, err := s.bookingRepo.CheckIn(db, booking.ID, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		if booking.Status == models.BookingStatusCheckedIn {
			return nil, apperrors.NewConflictError("booking", "Ticket has already been used")
		}
		return nil, apperrors.NewInvalidStatusError("booking", "Ticket is not confirmed")
	}

	booking.Status = models.BookingStatusCheckedIn
	booking.CheckedInAt = &now
	return booking, nil
}

func (s *bookingService) ListMyBookings(db *gorm.DB, userID string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return bookings, nil
}
