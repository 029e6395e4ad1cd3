package repositories

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("subscription payment not found")

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.SubscriptionPayment) error
	FindByOrderID(db *gorm.DB, orderID string) (*models.SubscriptionPayment, error)
	ListByUser(db *gorm.DB, userID string) ([]models.SubscriptionPayment, error)

	// CompleteByOrderID flips pending -> completed exactly once; a false
	// return means the order was already completed (or missing).
	CompleteByOrderID(db *gorm.DB, orderID, cashfreePaymentID string, paidAt time.Time) (bool, error)
}

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *models.SubscriptionPayment) error {
	return db.Create(payment).Error
}

func (r *paymentRepository) FindByOrderID(db *gorm.DB, orderID string) (*models.SubscriptionPayment, error) {
	var payment models.SubscriptionPayment
	err := db.Preload("Package").First(&payment, "cashfree_order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(db *gorm.DB, userID string) ([]models.SubscriptionPayment, error) {
	var payments []models.SubscriptionPayment
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) CompleteByOrderID(db *gorm.DB, orderID, cashfreePaymentID string, paidAt time.Time) (bool, error) {
	result := db.Model(&models.SubscriptionPayment{}).
		Where("cashfree_order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusCompleted,
			"cashfree_payment_id": cashfreePaymentID,
			"paid_at":             paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
