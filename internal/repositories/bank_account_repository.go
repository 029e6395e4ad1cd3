package repositories

import (
	"errors"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBankAccountNotFound = errors.New("bank account not found")

type BankAccountRepository interface {
	Create(db *gorm.DB, account *models.BankAccount) error
	FindOwned(db *gorm.DB, id, userID string) (*models.BankAccount, error)
	ListByUser(db *gorm.DB, userID string) ([]models.BankAccount, error)
	Delete(db *gorm.DB, id, userID string) error
}

type bankAccountRepository struct{}

func NewBankAccountRepository() BankAccountRepository {
	return &bankAccountRepository{}
}

func (r *bankAccountRepository) Create(db *gorm.DB, account *models.BankAccount) error {
	return db.Create(account).Error
}

// FindOwned scopes the lookup to the owning user so a caller can never
// snapshot someone else's bank details.
func (r *bankAccountRepository) FindOwned(db *gorm.DB, id, userID string) (*models.BankAccount, error) {
	var account models.BankAccount
	err := db.First(&account, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) ListByUser(db *gorm.DB, userID string) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (r *bankAccountRepository) Delete(db *gorm.DB, id, userID string) error {
	result := db.Delete(&models.BankAccount{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBankAccountNotFound
	}
	return nil
}
