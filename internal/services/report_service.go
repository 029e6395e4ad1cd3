package services

import (
	"errors"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type FileReportRequest struct {
	HostID string `json:"host_id" validate:"required,uuid"`
	Reason string `json:"reason" validate:"required,min=10,max=2000"`
}

type ReviewReportRequest struct {
	Resolution string `json:"resolution" validate:"required,is-report-resolution"`
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=2000"`
	BlockHost  bool   `json:"block_host"`
}

type ReportService interface {
	FileReport(db *gorm.DB, reporterID string, req *FileReportRequest) (*models.HostReport, error)
	ListReports(db *gorm.DB, adminID string, status models.ReportStatus, limit, offset int) ([]models.HostReport, error)
	ReviewReport(db *gorm.DB, adminID, reportID string, req *ReviewReportRequest) error
	BlockHost(db *gorm.DB, adminID, hostID string) error
}

type reportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
}

func NewReportService(reportRepo repositories.ReportRepository, userRepo repositories.UserRepository) ReportService {
	return &reportService{reportRepo: reportRepo, userRepo: userRepo}
}

// FileReport records one report per (reporter, host) pair. The target must
// actually be a host; users cannot report each other through this channel.
func (s *reportService) FileReport(db *gorm.DB, reporterID string, req *FileReportRequest) (*models.HostReport, error) {
	if reporterID == req.HostID {
		return nil, apperrors.NewBadRequestError("You cannot report yourself")
	}

	host, err := s.userRepo.FindByID(db, req.HostID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("report", "Host not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if host.Role != models.UserRoleHost {
		return nil, apperrors.NewBadRequestError("Reports can only be filed against hosts")
	}

	exists, err := s.reportRepo.Exists(db, reporterID, req.HostID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflictError("report", "You have already reported this host")
	}

	report := &models.HostReport{
		ReporterID:     reporterID,
		ReportedHostID: req.HostID,
		Reason:         req.Reason,
		Status:         models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(db, report); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return report, nil
}

func (s *reportService) ListReports(db *gorm.DB, adminID string, status models.ReportStatus, limit, offset int) ([]models.HostReport, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.ListByStatus(db, status, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return reports, nil
}

// ReviewReport moves a pending report to its resolution. Blocking the host is
// an explicit, separate choice: dismissing never blocks, and resolving only
// blocks when the admin asks for it.
func (s *reportService) ReviewReport(db *gorm.DB, adminID, reportID string, req *ReviewReportRequest) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}

	report, err := s.reportRepo.FindByID(db, reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			return apperrors.NewNotFoundError("report", "Report not found")
		}
		return apperrors.InternalError(err)
	}

	resolution := models.ReportStatus(req.Resolution)
	if req.BlockHost && resolution == models.ReportStatusDismissed {
		return apperrors.NewBadRequestError("A dismissed report cannot block the host")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.reportRepo.Transition(tx, reportID, resolution, req.AdminNotes)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.NewInvalidStatusError("report", "Report has already been reviewed")
		}

		if req.BlockHost {
			if err := s.userRepo.UpdateStatus(tx, report.ReportedHostID, models.UserStatusInactive); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
}

// BlockHost deactivates a host account directly, with no report attached.
// Blocking and report resolution are deliberately independent.
func (s *reportService) BlockHost(db *gorm.DB, adminID, hostID string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}

	host, err := s.userRepo.FindByID(db, hostID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewNotFoundError("report", "Host not found")
		}
		return apperrors.InternalError(err)
	}
	if host.Role != models.UserRoleHost {
		return apperrors.NewBadRequestError("Only host accounts can be blocked here")
	}

	if err := s.userRepo.UpdateStatus(db, hostID, models.UserStatusInactive); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
