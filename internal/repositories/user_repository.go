package repositories

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository owns user rows and every wallet mutation. The db handle is
// passed per call so services can route reads and transactional writes
// through the same methods.
type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByReferralCode(db *gorm.DB, code string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error

	// Subscription state
	ApplySubscription(db *gorm.DB, userID string, pkg *models.SubscriptionPackage, endDate *time.Time, freeSwipes int, now time.Time) error
	ResetDailySwipes(db *gorm.DB, now time.Time) (int64, error)
	ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error)

	// Wallet
	CreditWallet(db *gorm.DB, userID string, amount decimal.Decimal, txType models.WalletTxType, reference string) error
	DebitWalletIfSufficient(db *gorm.DB, userID string, amount decimal.Decimal, txType models.WalletTxType, reference string) (bool, error)
	ListWalletTransactions(db *gorm.DB, userID string, limit, offset int) ([]models.WalletTransaction, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("ActivePackage").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByReferralCode(db *gorm.DB, code string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "referral_code = ? AND role = ?", code, models.UserRoleReferrer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(user).Error
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *userRepository) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ApplySubscription writes the whole subscription bundle as one UPDATE so a
// reader never observes a half-applied purchase.
func (r *userRepository) ApplySubscription(db *gorm.DB, userID string, pkg *models.SubscriptionPackage, endDate *time.Time, freeSwipes int, now time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"active_package_id":     pkg.ID,
		"subscription_end_date": endDate,
		"daily_swipe_remaining": pkg.DailySwipeLimit,
		"free_swipes_remaining": freeSwipes,
		"last_swipe_reset":      now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetDailySwipes refreshes the daily counter for every user with an active,
// unexpired package whose last reset was before the current calendar day.
// Running it repeatedly within one day affects no additional rows.
func (r *userRepository) ResetDailySwipes(db *gorm.DB, now time.Time) (int64, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := db.Exec(`
		UPDATE users
		SET daily_swipe_remaining = (
			SELECT daily_swipe_limit FROM subscription_packages
			WHERE subscription_packages.id = users.active_package_id
		),
		last_swipe_reset = ?,
		updated_at = ?
		WHERE active_package_id IS NOT NULL
		AND (subscription_end_date IS NULL OR subscription_end_date > ?)
		AND (last_swipe_reset IS NULL OR last_swipe_reset < ?)
	`, now, now, now, startOfDay)

	return result.RowsAffected, result.Error
}

// ExpireSubscriptions clears the subscription bundle for users whose end date
// has passed. Lifetime packages (nil end date) are never touched.
func (r *userRepository) ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("subscription_end_date IS NOT NULL AND subscription_end_date <= ?", now).
		Updates(map[string]interface{}{
			"active_package_id":     nil,
			"subscription_end_date": nil,
			"daily_swipe_remaining": 0,
		})
	return result.RowsAffected, result.Error
}

// CreditWallet increments the balance and appends the matching ledger row.
// Callers run it inside a transaction when the credit is part of a larger
// mutation (booking confirmation).
func (r *userRepository) CreditWallet(db *gorm.DB, userID string, amount decimal.Decimal, txType models.WalletTxType, reference string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	tx := models.WalletTransaction{
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Reference: reference,
	}
	return db.Create(&tx).Error
}

// DebitWalletIfSufficient decrements the balance only when it still covers
// amount, reporting whether the debit happened. The conditional UPDATE makes
// the check-and-decrement atomic without a row lock.
func (r *userRepository) DebitWalletIfSufficient(db *gorm.DB, userID string, amount decimal.Decimal, txType models.WalletTxType, reference string) (bool, error) {
	result := db.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	tx := models.WalletTransaction{
		UserID:    userID,
		Amount:    amount.Neg(),
		Type:      txType,
		Reference: reference,
	}
	if err := db.Create(&tx).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) ListWalletTransactions(db *gorm.DB, userID string, limit, offset int) ([]models.WalletTransaction, error) {
	var txs []models.WalletTransaction
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	return txs, err
}
