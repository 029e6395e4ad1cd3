package repositories

import (
	"errors"
	"time"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrKycNotFound = errors.New("kyc record not found")

// KycRepository serves both review queues: dating KYC (chat gating) and host
// KYC (withdrawal gating). Each user holds at most one row per queue;
// resubmission overwrites it.
type KycRepository interface {
	FindDatingByUser(db *gorm.DB, userID string) (*models.DatingKycRequest, error)
	SaveDating(db *gorm.DB, req *models.DatingKycRequest) error
	ListDatingByStatus(db *gorm.DB, status models.KycStatus, limit, offset int) ([]models.DatingKycRequest, error)
	FindDatingByID(db *gorm.DB, id string) (*models.DatingKycRequest, error)
	TransitionDating(db *gorm.DB, id string, to models.KycStatus, reason string, reviewedAt time.Time) (bool, error)

	FindHostByUser(db *gorm.DB, userID string) (*models.HostKyc, error)
	SaveHost(db *gorm.DB, kyc *models.HostKyc) error
	ListHostByStatus(db *gorm.DB, status models.KycStatus, limit, offset int) ([]models.HostKyc, error)
	FindHostByID(db *gorm.DB, id string) (*models.HostKyc, error)
	TransitionHost(db *gorm.DB, id string, to models.KycStatus, reason string, reviewedAt time.Time) (bool, error)
	FindApprovedHostByUser(db *gorm.DB, userID string) (*models.HostKyc, error)
}

type kycRepository struct{}

func NewKycRepository() KycRepository {
	return &kycRepository{}
}

// --- Dating KYC ---

func (r *kycRepository) FindDatingByUser(db *gorm.DB, userID string) (*models.DatingKycRequest, error) {
	var req models.DatingKycRequest
	err := db.First(&req, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *kycRepository) SaveDating(db *gorm.DB, req *models.DatingKycRequest) error {
	return db.Save(req).Error
}

func (r *kycRepository) ListDatingByStatus(db *gorm.DB, status models.KycStatus, limit, offset int) ([]models.DatingKycRequest, error) {
	var reqs []models.DatingKycRequest
	err := db.Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *kycRepository) FindDatingByID(db *gorm.DB, id string) (*models.DatingKycRequest, error) {
	var req models.DatingKycRequest
	err := db.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *kycRepository) TransitionDating(db *gorm.DB, id string, to models.KycStatus, reason string, reviewedAt time.Time) (bool, error) {
	result := db.Model(&models.DatingKycRequest{}).
		Where("id = ? AND status = ?", id, models.KycStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"reason":      reason,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// --- Host KYC ---

func (r *kycRepository) FindHostByUser(db *gorm.DB, userID string) (*models.HostKyc, error) {
	var kyc models.HostKyc
	err := db.First(&kyc, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return &kyc, nil
}

func (r *kycRepository) SaveHost(db *gorm.DB, kyc *models.HostKyc) error {
	return db.Save(kyc).Error
}

func (r *kycRepository) ListHostByStatus(db *gorm.DB, status models.KycStatus, limit, offset int) ([]models.HostKyc, error) {
	var kycs []models.HostKyc
	err := db.Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&kycs).Error
	return kycs, err
}

func (r *kycRepository) FindHostByID(db *gorm.DB, id string) (*models.HostKyc, error) {
	var kyc models.HostKyc
	err := db.First(&kyc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return &kyc, nil
}

func (r *kycRepository) TransitionHost(db *gorm.DB, id string, to models.KycStatus, reason string, reviewedAt time.Time) (bool, error) {
	result := db.Model(&models.HostKyc{}).
		Where("id = ? AND status = ?", id, models.KycStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"reason":      reason,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindApprovedHostByUser is the withdrawal-eligibility lookup; it also
// supplies the bank snapshot for host payout requests.
func (r *kycRepository) FindApprovedHostByUser(db *gorm.DB, userID string) (*models.HostKyc, error) {
	var kyc models.HostKyc
	err := db.First(&kyc, "user_id = ? AND status = ?", userID, models.KycStatusApproved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycNotFound
		}
		return nil, err
	}
	return &kyc, nil
}
