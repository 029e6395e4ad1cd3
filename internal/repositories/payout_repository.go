package repositories

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPayoutNotFound = errors.New("payout not found")

type PayoutRepository interface {
	Create(db *gorm.DB, payout *models.Payout) error
	FindByID(db *gorm.DB, id string) (*models.Payout, error)
	HasPending(db *gorm.DB, userID string) (bool, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Payout, error)
	ListByStatus(db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.Payout, error)

	// Status-guarded transitions. Both report whether the row was still
	// pending; a false return means another actor got there first.
	MarkCompleted(db *gorm.DB, id string, processedAt time.Time) (bool, error)
	MarkFailed(db *gorm.DB, id string, processedAt time.Time) (bool, error)
}

type payoutRepository struct{}

func NewPayoutRepository() PayoutRepository {
	return &payoutRepository{}
}

func (r *payoutRepository) Create(db *gorm.DB, payout *models.Payout) error {
	return db.Create(payout).Error
}

func (r *payoutRepository) FindByID(db *gorm.DB, id string) (*models.Payout, error) {
	var payout models.Payout
	err := db.Preload("User").First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) HasPending(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.Payout{}).
		Where("user_id = ? AND status = ?", userID, models.PayoutStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *payoutRepository) ListByUser(db *gorm.DB, userID string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := db.Where("user_id = ?", userID).Order("requested_at DESC").Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) ListByStatus(db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.Payout, error) {
	var payouts []models.Payout
	err := db.Where("status = ?", status).
		Order("requested_at ASC").
		Limit(limit).Offset(offset).
		Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) MarkCompleted(db *gorm.DB, id string, processedAt time.Time) (bool, error) {
	return r.transition(db, id, models.PayoutStatusCompleted, processedAt)
}

func (r *payoutRepository) MarkFailed(db *gorm.DB, id string, processedAt time.Time) (bool, error) {
	return r.transition(db, id, models.PayoutStatusFailed, processedAt)
}

func (r *payoutRepository) transition(db *gorm.DB, id string, to models.PayoutStatus, processedAt time.Time) (bool, error) {
	result := db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, models.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":       to,
			"processed_at": processedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
