package repositories

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindByID(db *gorm.DB, id string) (*models.Booking, error)
	FindByTicketCode(db *gorm.DB, code string) (*models.Booking, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Booking, error)

	// Status-guarded transitions; false means the booking had already moved
	// past the expected source state.
	Confirm(db *gorm.DB, id string) (bool, error)
	CheckIn(db *gorm.DB, id string, at time.Time) (bool, error)
}

type bookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *models.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Event").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByTicketCode(db *gorm.DB, code string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Event").First(&booking, "ticket_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(db *gorm.DB, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Confirm(db *gorm.DB, id string) (bool, error) {
	result := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusPending).
		Update("status", models.BookingStatusConfirmed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *bookingRepository) CheckIn(db *gorm.DB, id string, at time.Time) (bool, error) {
	result := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusConfirmed).
		Updates(map[string]interface{}{
			"status":        models.BookingStatusCheckedIn,
			"checked_in_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
