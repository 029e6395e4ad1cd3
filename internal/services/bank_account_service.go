package services

import (
	"errors"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AddBankAccountRequest struct {
	AccountHolder string `json:"account_holder" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=24,numeric"`
	IFSC          string `json:"ifsc" validate:"required,len=11"`
	BankName      string `json:"bank_name" validate:"required,min=2,max=100"`
}

// BankAccountService manages referrer payout destinations. Hosts carry bank
// details on their KYC record instead.
type BankAccountService interface {
	AddBankAccount(db *gorm.DB, userID string, req *AddBankAccountRequest) (*models.BankAccount, error)
	ListBankAccounts(db *gorm.DB, userID string) ([]models.BankAccount, error)
	RemoveBankAccount(db *gorm.DB, userID, accountID string) error
}

type bankAccountService struct {
	bankRepo repositories.BankAccountRepository
	userRepo repositories.UserRepository
}

func NewBankAccountService(bankRepo repositories.BankAccountRepository, userRepo repositories.UserRepository) BankAccountService {
	return &bankAccountService{bankRepo: bankRepo, userRepo: userRepo}
}

func (s *bankAccountService) AddBankAccount(db *gorm.DB, userID string, req *AddBankAccountRequest) (*models.BankAccount, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Unknown user")
	}
	if user.Role != models.UserRoleReferrer {
		return nil, apperrors.ErrInvalidUserRole
	}

	account := &models.BankAccount{
		UserID:        userID,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		BankName:      req.BankName,
	}
	if err := s.bankRepo.Create(db, account); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return account, nil
}

func (s *bankAccountService) ListBankAccounts(db *gorm.DB, userID string) ([]models.BankAccount, error) {
	accounts, err := s.bankRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return accounts, nil
}

func (s *bankAccountService) RemoveBankAccount(db *gorm.DB, userID, accountID string) error {
	if err := s.bankRepo.Delete(db, accountID, userID); err != nil {
		if errors.Is(err, repositories.ErrBankAccountNotFound) {
			return apperrors.NewNotFoundError("payout", "Bank account not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}
