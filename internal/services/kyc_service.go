package services

import (
	"errors"
	"time"

	"festmatch_backend/internal/email"
	"festmatch_backend/internal/logger"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DatingKycRequest struct {
	DocType     string `json:"doc_type" validate:"required,is-doc-type"`
	DocFrontURL string `json:"doc_front_url" validate:"required,url"`
	DocBackURL  string `json:"doc_back_url" validate:"omitempty,url"`
	SelfieURL   string `json:"selfie_url" validate:"required,url"`
}

type HostKycRequest struct {
	DocType     string `json:"doc_type" validate:"required,is-doc-type"`
	DocFrontURL string `json:"doc_front_url" validate:"required,url"`
	DocBackURL  string `json:"doc_back_url" validate:"omitempty,url"`
	SelfieURL   string `json:"selfie_url" validate:"required,url"`

	AccountHolder string `json:"account_holder" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=24,numeric"`
	IFSC          string `json:"ifsc" validate:"required,len=11"`
	BankName      string `json:"bank_name" validate:"required,min=2,max=100"`
}

// KycStatusResponse is what users see about their own verification.
type KycStatusResponse struct {
	Status models.KycStatus `json:"status"`
	Reason string           `json:"reason,omitempty"`
}

type KycService interface {
	SubmitDatingKyc(db *gorm.DB, userID string, req *DatingKycRequest) (*models.DatingKycRequest, error)
	GetDatingStatus(db *gorm.DB, userID string) (*KycStatusResponse, error)
	ListPendingDating(db *gorm.DB, adminID string, limit, offset int) ([]models.DatingKycRequest, error)
	ReviewDatingKyc(db *gorm.DB, adminID, requestID string, approve bool, reason string) error

	SubmitHostKyc(db *gorm.DB, userID string, req *HostKycRequest) (*models.HostKyc, error)
	GetHostStatus(db *gorm.DB, userID string) (*KycStatusResponse, error)
	ListPendingHost(db *gorm.DB, adminID string, limit, offset int) ([]models.HostKyc, error)
	ReviewHostKyc(db *gorm.DB, adminID, requestID string, approve bool, reason string) error

	CanInitiateChat(db *gorm.DB, userID string) (bool, error)
}

type kycService struct {
	kycRepo       repositories.KycRepository
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewKycService(kycRepo repositories.KycRepository, userRepo repositories.UserRepository, emailProvider email.Provider) KycService {
	return &kycService{
		kycRepo:       kycRepo,
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// SubmitDatingKyc creates or resubmits a verification request. A pending or
// approved record blocks resubmission; a rejected one is overwritten in
// place so the unique user index holds.
func (s *kycService) SubmitDatingKyc(db *gorm.DB, userID string, req *DatingKycRequest) (*models.DatingKycRequest, error) {
	if err := validateDocSides(models.KycDocType(req.DocType), req.DocBackURL); err != nil {
		return nil, err
	}

	record, err := s.kycRepo.FindDatingByUser(db, userID)
	if err != nil && !errors.Is(err, repositories.ErrKycNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if record != nil {
		switch record.Status {
		case models.KycStatusPending:
			return nil, apperrors.NewConflictError("kyc", "A verification request is already under review")
		case models.KycStatusApproved:
			return nil, apperrors.NewConflictError("kyc", "You are already verified")
		}
	} else {
		record = &models.DatingKycRequest{UserID: userID}
	}

	record.DocType = models.KycDocType(req.DocType)
	record.DocFrontURL = req.DocFrontURL
	record.DocBackURL = req.DocBackURL
	record.SelfieURL = req.SelfieURL
	record.Status = models.KycStatusPending
	record.Reason = ""
	record.ReviewedAt = nil

	if err := s.kycRepo.SaveDating(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *kycService) GetDatingStatus(db *gorm.DB, userID string) (*KycStatusResponse, error) {
	record, err := s.kycRepo.FindDatingByUser(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return &KycStatusResponse{Status: models.KycStatusNotStarted}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return &KycStatusResponse{Status: record.Status, Reason: record.Reason}, nil
}

func (s *kycService) ListPendingDating(db *gorm.DB, adminID string, limit, offset int) ([]models.DatingKycRequest, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}
	records, err := s.kycRepo.ListDatingByStatus(db, models.KycStatusPending, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return records, nil
}

// ReviewDatingKyc approves or rejects a pending request. The transition is
// guarded on the pending status, so two admins racing on the same request
// resolve to exactly one decision.
func (s *kycService) ReviewDatingKyc(db *gorm.DB, adminID, requestID string, approve bool, reason string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}
	if !approve && reason == "" {
		return apperrors.NewBadRequestError("A rejection reason is required")
	}

	record, err := s.kycRepo.FindDatingByID(db, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return apperrors.NewNotFoundError("kyc", "Verification request not found")
		}
		return apperrors.InternalError(err)
	}

	to := models.KycStatusApproved
	if !approve {
		to = models.KycStatusRejected
	}

	ok, err := s.kycRepo.TransitionDating(db, requestID, to, reason, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.NewInvalidStatusError("kyc", "Verification request is no longer pending")
	}

	s.notifyDecision(db, record.UserID, "dating", approve, reason)
	return nil
}

func (s *kycService) SubmitHostKyc(db *gorm.DB, userID string, req *HostKycRequest) (*models.HostKyc, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Unknown user")
	}
	if user.Role != models.UserRoleHost {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := validateDocSides(models.KycDocType(req.DocType), req.DocBackURL); err != nil {
		return nil, err
	}

	record, err := s.kycRepo.FindHostByUser(db, userID)
	if err != nil && !errors.Is(err, repositories.ErrKycNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if record != nil {
		switch record.Status {
		case models.KycStatusPending:
			return nil, apperrors.NewConflictError("kyc", "A verification request is already under review")
		case models.KycStatusApproved:
			return nil, apperrors.NewConflictError("kyc", "You are already verified")
		}
	} else {
		record = &models.HostKyc{UserID: userID}
	}

	record.DocType = models.KycDocType(req.DocType)
	record.DocFrontURL = req.DocFrontURL
	record.DocBackURL = req.DocBackURL
	record.SelfieURL = req.SelfieURL
	record.AccountHolder = req.AccountHolder
	record.AccountNumber = req.AccountNumber
	record.IFSC = req.IFSC
	record.BankName = req.BankName
	record.Status = models.KycStatusPending
	record.Reason = ""
	record.ReviewedAt = nil

	if err := s.kycRepo.SaveHost(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *kycService) GetHostStatus(db *gorm.DB, userID string) (*KycStatusResponse, error) {
	record, err := s.kycRepo.FindHostByUser(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return &KycStatusResponse{Status: models.KycStatusNotStarted}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return &KycStatusResponse{Status: record.Status, Reason: record.Reason}, nil
}

func (s *kycService) ListPendingHost(db *gorm.DB, adminID string, limit, offset int) ([]models.HostKyc, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}
	records, err := s.kycRepo.ListHostByStatus(db, models.KycStatusPending, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return records, nil
}

func (s *kycService) ReviewHostKyc(db *gorm.DB, adminID, requestID string, approve bool, reason string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}
	if !approve && reason == "" {
		return apperrors.NewBadRequestError("A rejection reason is required")
	}

	record, err := s.kycRepo.FindHostByID(db, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return apperrors.NewNotFoundError("kyc", "Verification request not found")
		}
		return apperrors.InternalError(err)
	}

	to := models.KycStatusApproved
	if !approve {
		to = models.KycStatusRejected
	}

	ok, err := s.kycRepo.TransitionHost(db, requestID, to, reason, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.NewInvalidStatusError("kyc", "Verification request is no longer pending")
	}

	s.notifyDecision(db, record.UserID, "host", approve, reason)
	return nil
}

// CanInitiateChat reports whether the user passed dating verification.
func (s *kycService) CanInitiateChat(db *gorm.DB, userID string) (bool, error) {
	record, err := s.kycRepo.FindDatingByUser(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKycNotFound) {
			return false, nil
		}
		return false, apperrors.InternalError(err)
	}
	return record.Status == models.KycStatusApproved, nil
}

func (s *kycService) notifyDecision(db *gorm.DB, userID, queue string, approved bool, reason string) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		logger.WithError(err).Warn("kyc decision email skipped, user lookup failed", "user_id", userID)
		return
	}
	if err := s.emailProvider.SendKycDecision(user.Name, user.Email, queue, approved, reason); err != nil {
		logger.WithError(err).Warn("failed to send kyc decision email", "user_id", userID)
	}
}

// Aadhaar cards carry information on both sides; other accepted documents
// only need the front.
func validateDocSides(docType models.KycDocType, backURL string) error {
	if docType == models.KycDocAadhaar && backURL == "" {
		return apperrors.NewBadRequestError("Aadhaar verification requires both document sides")
	}
	return nil
}
