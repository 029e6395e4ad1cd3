package repositories

import (
	"errors"

	"festmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("host report not found")
	ErrDuplicateReport = errors.New("report already filed for this host")
)

type ReportRepository interface {
	Create(db *gorm.DB, report *models.HostReport) error
	FindByID(db *gorm.DB, id string) (*models.HostReport, error)
	Exists(db *gorm.DB, reporterID, hostID string) (bool, error)
	ListByStatus(db *gorm.DB, status models.ReportStatus, limit, offset int) ([]models.HostReport, error)
	Transition(db *gorm.DB, id string, to models.ReportStatus, notes string) (bool, error)
}

type reportRepository struct{}

func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(db *gorm.DB, report *models.HostReport) error {
	return db.Create(report).Error
}

func (r *reportRepository) FindByID(db *gorm.DB, id string) (*models.HostReport, error) {
	var report models.HostReport
	err := db.First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Exists(db *gorm.DB, reporterID, hostID string) (bool, error) {
	var count int64
	err := db.Model(&models.HostReport{}).
		Where("reporter_id = ? AND reported_host_id = ?", reporterID, hostID).
		Count(&count).Error
	return count > 0, err
}

func (r *reportRepository) ListByStatus(db *gorm.DB, status models.ReportStatus, limit, offset int) ([]models.HostReport, error) {
	var reports []models.HostReport
	err := db.Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	return reports, err
}

// Transition moves a pending report to its resolution, refusing to overwrite
// a decision already made.
func (r *reportRepository) Transition(db *gorm.DB, id string, to models.ReportStatus, notes string) (bool, error) {
	result := db.Model(&models.HostReport{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"admin_notes": notes,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
