package services_test

import (
	"testing"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/internal/services"
	"festmatch_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService() services.ReportService {
	return services.NewReportService(
		repositories.NewReportRepository(),
		repositories.NewUserRepository(),
	)
}

func TestFileReport(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService()

	reporter := createUser(t, db, models.UserRoleUser, "0")
	host := createUser(t, db, models.UserRoleHost, "0")
	other := createUser(t, db, models.UserRoleUser, "0")

	// only hosts can be reported
	_, err := svc.FileReport(db, reporter.ID, &services.FileReportRequest{
		HostID: other.ID, Reason: "spamming everyone in chat",
	})
	require.Error(t, err)

	report, err := svc.FileReport(db, reporter.ID, &services.FileReportRequest{
		HostID: host.ID, Reason: "event never happened, no refund",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)

	// one report per (reporter, host) pair
	_, err = svc.FileReport(db, reporter.ID, &services.FileReportRequest{
		HostID: host.ID, Reason: "following up on the same thing",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// a different reporter can still file
	_, err = svc.FileReport(db, other.ID, &services.FileReportRequest{
		HostID: host.ID, Reason: "same event, same problem here",
	})
	assert.NoError(t, err)
}

func TestReviewReport(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService()

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	reporter := createUser(t, db, models.UserRoleUser, "0")
	host := createUser(t, db, models.UserRoleHost, "0")

	report, err := svc.FileReport(db, reporter.ID, &services.FileReportRequest{
		HostID: host.ID, Reason: "event never happened, no refund",
	})
	require.NoError(t, err)

	// dismissing cannot block
	err = svc.ReviewReport(db, admin.ID, report.ID, &services.ReviewReportRequest{
		Resolution: string(models.ReportStatusDismissed), BlockHost: true,
	})
	require.Error(t, err)

	// resolve with a block
	require.NoError(t, svc.ReviewReport(db, admin.ID, report.ID, &services.ReviewReportRequest{
		Resolution: string(models.ReportStatusResolved),
		AdminNotes: "verified with attendees",
		BlockHost:  true,
	}))

	var stored models.HostReport
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.Equal(t, models.ReportStatusResolved, stored.Status)
	assert.Equal(t, "verified with attendees", stored.AdminNotes)

	var blockedHost models.User
	require.NoError(t, db.First(&blockedHost, "id = ?", host.ID).Error)
	assert.Equal(t, models.UserStatusInactive, blockedHost.Status)

	// already reviewed
	err = svc.ReviewReport(db, admin.ID, report.ID, &services.ReviewReportRequest{
		Resolution: string(models.ReportStatusDismissed),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestBlockHost_IndependentOfReports(t *testing.T) {
	db := setupTestDB(t)
	svc := newReportService()

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	host := createUser(t, db, models.UserRoleHost, "0")
	user := createUser(t, db, models.UserRoleUser, "0")

	// no report exists; blocking still works
	require.NoError(t, svc.BlockHost(db, admin.ID, host.ID))

	var blocked models.User
	require.NoError(t, db.First(&blocked, "id = ?", host.ID).Error)
	assert.Equal(t, models.UserStatusInactive, blocked.Status)

	// non-hosts are rejected
	err := svc.BlockHost(db, admin.ID, user.ID)
	require.Error(t, err)

	// non-admins cannot block
	err = svc.BlockHost(db, user.ID, host.ID)
	require.Error(t, err)
}
