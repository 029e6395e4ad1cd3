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

func newKycService(email *recordingEmail) services.KycService {
	return services.NewKycService(
		repositories.NewKycRepository(),
		repositories.NewUserRepository(),
		email,
	)
}

func datingSubmission(docType string) *services.DatingKycRequest {
	req := &services.DatingKycRequest{
		DocType:     docType,
		DocFrontURL: "https://cdn.test/front.jpg",
		SelfieURL:   "https://cdn.test/selfie.jpg",
	}
	if docType == string(models.KycDocAadhaar) {
		req.DocBackURL = "https://cdn.test/back.jpg"
	}
	return req
}

func TestSubmitDatingKyc_AadhaarNeedsBothSides(t *testing.T) {
	db := setupTestDB(t)
	svc := newKycService(&recordingEmail{})
	user := createUser(t, db, models.UserRoleUser, "0")

	req := datingSubmission(string(models.KycDocAadhaar))
	req.DocBackURL = ""
	_, err := svc.SubmitDatingKyc(db, user.ID, req)
	require.Error(t, err)

	// PAN has a single side
	_, err = svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPan)))
	assert.NoError(t, err)
}

func TestDatingKycStateMachine(t *testing.T) {
	db := setupTestDB(t)
	email := &recordingEmail{}
	svc := newKycService(email)

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	user := createUser(t, db, models.UserRoleUser, "0")

	// fresh user has not started
	status, err := svc.GetDatingStatus(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KycStatusNotStarted, status.Status)

	record, err := svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocAadhaar)))
	require.NoError(t, err)
	assert.Equal(t, models.KycStatusPending, record.Status)

	// pending blocks resubmission
	_, err = svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPan)))
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// reject with reason, then resubmission is allowed again
	require.NoError(t, svc.ReviewDatingKyc(db, admin.ID, record.ID, false, "photo unreadable"))
	status, err = svc.GetDatingStatus(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KycStatusRejected, status.Status)
	assert.Equal(t, "photo unreadable", status.Reason)

	ok2, err := svc.CanInitiateChat(db, user.ID)
	require.NoError(t, err)
	assert.False(t, ok2)

	record, err = svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPassport)))
	require.NoError(t, err)
	assert.Equal(t, models.KycStatusPending, record.Status)
	assert.Empty(t, record.Reason)

	require.NoError(t, svc.ReviewDatingKyc(db, admin.ID, record.ID, true, ""))

	// approved blocks resubmission and unlocks chat
	_, err = svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPan)))
	require.Error(t, err)

	canChat, err := svc.CanInitiateChat(db, user.ID)
	require.NoError(t, err)
	assert.True(t, canChat)

	assert.Contains(t, email.sent, "kyc_decision:"+user.Email+":dating:false")
	assert.Contains(t, email.sent, "kyc_decision:"+user.Email+":dating:true")
}

func TestReviewDatingKyc_Guards(t *testing.T) {
	db := setupTestDB(t)
	svc := newKycService(&recordingEmail{})

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	user := createUser(t, db, models.UserRoleUser, "0")

	record, err := svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPan)))
	require.NoError(t, err)

	// rejection requires a reason
	err = svc.ReviewDatingKyc(db, admin.ID, record.ID, false, "")
	require.Error(t, err)

	// only admins review
	err = svc.ReviewDatingKyc(db, user.ID, record.ID, true, "")
	require.Error(t, err)

	require.NoError(t, svc.ReviewDatingKyc(db, admin.ID, record.ID, true, ""))

	// second decision hits the status guard
	err = svc.ReviewDatingKyc(db, admin.ID, record.ID, false, "changed my mind")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestSubmitHostKyc(t *testing.T) {
	db := setupTestDB(t)
	email := &recordingEmail{}
	svc := newKycService(email)

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	host := createUser(t, db, models.UserRoleHost, "0")
	user := createUser(t, db, models.UserRoleUser, "0")

	req := &services.HostKycRequest{
		DocType:       string(models.KycDocPan),
		DocFrontURL:   "https://cdn.test/front.jpg",
		SelfieURL:     "https://cdn.test/selfie.jpg",
		AccountHolder: "Host One",
		AccountNumber: "123456789012",
		IFSC:          "HDFC0001234",
		BankName:      "HDFC Bank",
	}

	// only hosts submit host verification
	_, err := svc.SubmitHostKyc(db, user.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)

	record, err := svc.SubmitHostKyc(db, host.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", record.AccountNumber)

	require.NoError(t, svc.ReviewHostKyc(db, admin.ID, record.ID, true, ""))

	// the approved record is what payouts snapshot from
	kycRepo := repositories.NewKycRepository()
	approved, err := kycRepo.FindApprovedHostByUser(db, host.ID)
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank", approved.BankName)
	assert.Contains(t, email.sent, "kyc_decision:"+host.Email+":host:true")
}

func TestListPendingKycQueues(t *testing.T) {
	db := setupTestDB(t)
	svc := newKycService(&recordingEmail{})

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	for i := 0; i < 3; i++ {
		user := createUser(t, db, models.UserRoleUser, "0")
		_, err := svc.SubmitDatingKyc(db, user.ID, datingSubmission(string(models.KycDocPan)))
		require.NoError(t, err)
	}

	pending, err := svc.ListPendingDating(db, admin.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	page, err := svc.ListPendingDating(db, admin.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
