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

// WithdrawalRequest is the payload for a new payout request. BankAccountID is
// required for referrers; hosts draw bank details from their approved KYC.
type WithdrawalRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BankAccountID string  `json:"bank_account_id" validate:"omitempty,uuid"`
}

type PayoutService interface {
	RequestWithdrawal(db *gorm.DB, userID string, req *WithdrawalRequest) (*models.Payout, error)
	ApprovePayout(db *gorm.DB, adminID, payoutID string) error
	RejectPayout(db *gorm.DB, adminID, payoutID string) error
	ListMyPayouts(db *gorm.DB, userID string) ([]models.Payout, error)
	ListPendingPayouts(db *gorm.DB, limit, offset int) ([]models.Payout, error)
	GetWalletStatement(db *gorm.DB, userID string, limit, offset int) ([]models.WalletTransaction, error)
}

type payoutService struct {
	payoutRepo    repositories.PayoutRepository
	userRepo      repositories.UserRepository
	kycRepo       repositories.KycRepository
	bankRepo      repositories.BankAccountRepository
	emailProvider email.Provider
	minWithdrawal decimal.Decimal
}

func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	userRepo repositories.UserRepository,
	kycRepo repositories.KycRepository,
	bankRepo repositories.BankAccountRepository,
	emailProvider email.Provider,
	minWithdrawal decimal.Decimal,
) PayoutService {
	return &payoutService{
		payoutRepo:    payoutRepo,
		userRepo:      userRepo,
		kycRepo:       kycRepo,
		bankRepo:      bankRepo,
		emailProvider: emailProvider,
		minWithdrawal: minWithdrawal,
	}
}

// RequestWithdrawal validates every precondition in order and creates the
// payout with bank details snapshotted at request time. Nothing is written
// unless every check passes.
func (s *payoutService) RequestWithdrawal(db *gorm.DB, userID string, req *WithdrawalRequest) (*models.Payout, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if user.Role != models.UserRoleHost && user.Role != models.UserRoleReferrer {
		return nil, apperrors.ErrInvalidUserRole
	}

	payout := &models.Payout{
		UserID:      userID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Status:      models.PayoutStatusPending,
		RequestedAt: time.Now(),
	}

	switch user.Role {
	case models.UserRoleHost:
		kyc, err := s.kycRepo.FindApprovedHostByUser(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrKycNotFound) {
				return nil, apperrors.ErrKycNotApproved
			}
			return nil, apperrors.InternalError(err)
		}
		payout.AccountHolder = kyc.AccountHolder
		payout.AccountNumber = kyc.AccountNumber
		payout.IFSC = kyc.IFSC
		payout.BankName = kyc.BankName

	case models.UserRoleReferrer:
		if req.BankAccountID == "" {
			return nil, apperrors.NewBadRequestError("A bank account is required for withdrawal")
		}
		account, err := s.bankRepo.FindOwned(db, req.BankAccountID, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrBankAccountNotFound) {
				return nil, apperrors.NewNotFoundError("payout", "Bank account not found")
			}
			return nil, apperrors.InternalError(err)
		}
		payout.AccountHolder = account.AccountHolder
		payout.AccountNumber = account.AccountNumber
		payout.IFSC = account.IFSC
		payout.BankName = account.BankName
	}

	if user.WalletBalance.LessThan(payout.Amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	if payout.Amount.LessThan(s.minWithdrawal) {
		return nil, apperrors.NewBadRequestError("Minimum withdrawal amount is ₹100")
	}

	hasPending, err := s.payoutRepo.HasPending(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if hasPending {
		return nil, apperrors.ErrPendingPayoutExists
	}

	if err := s.payoutRepo.Create(db, payout); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.emailProvider.SendPayoutRequested(user.Name, user.Email, payout.Amount, payout.ID); err != nil {
		logger.WithError(err).Warn("failed to send payout-requested email", "payout_id", payout.ID)
	}

	return payout, nil
}

// ApprovePayout completes a pending payout and debits the wallet in one
// transaction. The debit re-checks the balance at approval time; a balance
// that shrank since the request aborts both writes.
func (s *payoutService) ApprovePayout(db *gorm.DB, adminID, payoutID string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}

	payout, err := s.payoutRepo.FindByID(db, payoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return apperrors.NewNotFoundError("payout", "Payout not found")
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.payoutRepo.MarkCompleted(tx, payoutID, time.Now())
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.NewInvalidStatusError("payout", "Payout is no longer pending")
		}

		debited, err := s.userRepo.DebitWalletIfSufficient(tx, payout.UserID, payout.Amount, models.WalletTxPayout, payout.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !debited {
			return apperrors.ErrInsufficientBalance
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.emailProvider.SendPayoutApproved(payout.User.Name, payout.User.Email, payout.Amount, payout.AccountNumber, payout.BankName); err != nil {
		logger.WithError(err).Warn("failed to send payout-approved email", "payout_id", payout.ID)
	}

	return nil
}

// RejectPayout fails a pending payout without touching the wallet. The user
// may request again afterwards.
func (s *payoutService) RejectPayout(db *gorm.DB, adminID, payoutID string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}

	payout, err := s.payoutRepo.FindByID(db, payoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return apperrors.NewNotFoundError("payout", "Payout not found")
		}
		return apperrors.InternalError(err)
	}

	ok, err := s.payoutRepo.MarkFailed(db, payoutID, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.NewInvalidStatusError("payout", "Payout is no longer pending")
	}

	if err := s.emailProvider.SendPayoutRejected(payout.User.Name, payout.User.Email, payout.Amount); err != nil {
		logger.WithError(err).Warn("failed to send payout-rejected email", "payout_id", payout.ID)
	}

	return nil
}

func (s *payoutService) ListMyPayouts(db *gorm.DB, userID string) ([]models.Payout, error) {
	payouts, err := s.payoutRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payouts, nil
}

func (s *payoutService) ListPendingPayouts(db *gorm.DB, limit, offset int) ([]models.Payout, error) {
	payouts, err := s.payoutRepo.ListByStatus(db, models.PayoutStatusPending, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payouts, nil
}

func (s *payoutService) GetWalletStatement(db *gorm.DB, userID string, limit, offset int) ([]models.WalletTransaction, error) {
	txs, err := s.userRepo.ListWalletTransactions(db, userID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return txs, nil
}
