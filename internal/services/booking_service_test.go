package services_test

import (
	"testing"
	"time"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/internal/services"
	"festmatch_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookingService(email *recordingEmail) services.BookingService {
	return services.NewBookingService(
		repositories.NewBookingRepository(),
		repositories.NewEventRepository(),
		repositories.NewUserRepository(),
		email,
		decimal.NewFromInt(10),
		decimal.NewFromInt(5),
	)
}

func createPublishedEvent(t *testing.T, db *gorm.DB, hostID string, price string, capacity int) *models.Event {
	t.Helper()
	event := &models.Event{
		HostID:      hostID,
		Title:       "Sunburn Warm-up",
		Venue:       "Phoenix Arena",
		City:        "Pune",
		StartsAt:    time.Now().Add(48 * time.Hour),
		TicketPrice: decimal.RequireFromString(price),
		Capacity:    capacity,
		Status:      models.EventStatusPublished,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestBookTickets(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(&recordingEmail{})

	host := createUser(t, db, models.UserRoleHost, "0")
	buyer := createUser(t, db, models.UserRoleUser, "0")
	event := createPublishedEvent(t, db, host.ID, "250", 100)

	booking, err := svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.True(t, booking.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Len(t, booking.TicketCode, 8)

	// draft events are not bookable
	draft := &models.Event{
		HostID: host.ID, Title: "Secret", Venue: "TBD", City: "Pune",
		StartsAt: time.Now().Add(24 * time.Hour),
		TicketPrice: decimal.NewFromInt(100), Capacity: 10,
		Status: models.EventStatusDraft,
	}
	require.NoError(t, db.Create(draft).Error)
	_, err = svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{EventID: draft.ID, Quantity: 1})
	require.Error(t, err)

	// unknown referral codes are rejected up front
	_, err = svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 1, ReferralCode: "NOPE1234",
	})
	require.Error(t, err)
}

func TestConfirmBooking_CreditsHostAndReferrer(t *testing.T) {
	db := setupTestDB(t)
	email := &recordingEmail{}
	svc := newBookingService(email)

	host := createUser(t, db, models.UserRoleHost, "0")
	buyer := createUser(t, db, models.UserRoleUser, "0")
	referrer := createUser(t, db, models.UserRoleReferrer, "0")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", referrer.ID).
		Update("referral_code", "FEST1234").Error)

	event := createPublishedEvent(t, db, host.ID, "250", 100)

	booking, err := svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 4, ReferralCode: "FEST1234",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmBooking(db, booking.ID))

	// 1000 gross: host gets 90%, referrer 5%
	assert.True(t, walletBalance(t, db, host.ID).Equal(decimal.NewFromInt(900)))
	assert.True(t, walletBalance(t, db, referrer.ID).Equal(decimal.NewFromInt(50)))

	// one ledger row per credit, and the ledger matches the balances
	assert.True(t, ledgerSum(t, db, host.ID).Equal(decimal.NewFromInt(900)))
	assert.True(t, ledgerSum(t, db, referrer.ID).Equal(decimal.NewFromInt(50)))

	var updatedEvent models.Event
	require.NoError(t, db.First(&updatedEvent, "id = ?", event.ID).Error)
	assert.Equal(t, 4, updatedEvent.TicketsSold)

	assert.Contains(t, email.sent, "booking_confirmed:"+buyer.Email)

	// re-confirming is refused and credits nothing further
	err = svc.ConfirmBooking(db, booking.ID)
	require.Error(t, err)
	assert.True(t, walletBalance(t, db, host.ID).Equal(decimal.NewFromInt(900)))
}

func TestConfirmBooking_SoldOutRollsBack(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(&recordingEmail{})

	host := createUser(t, db, models.UserRoleHost, "0")
	buyer := createUser(t, db, models.UserRoleUser, "0")
	event := createPublishedEvent(t, db, host.ID, "100", 3)

	booking, err := svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 2,
	})
	require.NoError(t, err)

	// capacity disappears before confirmation
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("tickets_sold", 2).Error)

	err = svc.ConfirmBooking(db, booking.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// the booking stayed pending and the host got nothing
	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.True(t, walletBalance(t, db, host.ID).IsZero())
}

func TestVerifyTicket(t *testing.T) {
	db := setupTestDB(t)
	svc := newBookingService(&recordingEmail{})

	host := createUser(t, db, models.UserRoleHost, "0")
	otherHost := createUser(t, db, models.UserRoleHost, "0")
	buyer := createUser(t, db, models.UserRoleUser, "0")
	event := createPublishedEvent(t, db, host.ID, "100", 50)

	booking, err := svc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 1,
	})
	require.NoError(t, err)

	// pending tickets are not admitted
	_, err = svc.VerifyTicket(db, host.ID, booking.TicketCode)
	require.Error(t, err)

	require.NoError(t, svc.ConfirmBooking(db, booking.ID))

	// another host cannot scan this ticket
	_, err = svc.VerifyTicket(db, otherHost.ID, booking.TicketCode)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	checked, err := svc.VerifyTicket(db, host.ID, booking.TicketCode)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedIn, checked.Status)
	require.NotNil(t, checked.CheckedInAt)

	// second scan of the same code is rejected
	_, err = svc.VerifyTicket(db, host.ID, booking.TicketCode)
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestWalletConservationAcrossFlows(t *testing.T) {
	db := setupTestDB(t)
	bookingSvc := newBookingService(&recordingEmail{})
	payoutSvc := newPayoutService(&recordingEmail{})

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	host := createUser(t, db, models.UserRoleHost, "0")
	buyer := createUser(t, db, models.UserRoleUser, "0")
	approveHostKyc(t, db, host.ID)

	event := createPublishedEvent(t, db, host.ID, "500", 50)

	booking, err := bookingSvc.BookTickets(db, buyer.ID, &services.BookTicketsRequest{
		EventID: event.ID, Quantity: 2,
	})
	require.NoError(t, err)
	require.NoError(t, bookingSvc.ConfirmBooking(db, booking.ID))

	// 1000 gross -> 900 host earning
	payout, err := payoutSvc.RequestWithdrawal(db, host.ID, &services.WithdrawalRequest{Amount: 400})
	require.NoError(t, err)
	require.NoError(t, payoutSvc.ApprovePayout(db, admin.ID, payout.ID))

	// balance and ledger agree after earning and withdrawal
	balance := walletBalance(t, db, host.ID)
	assert.True(t, balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, ledgerSum(t, db, host.ID).Equal(balance))
}
