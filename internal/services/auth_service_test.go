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

func newAuthService() services.AuthService {
	return services.NewAuthService(repositories.NewUserRepository())
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	resp, err := svc.Signup(db, &services.SignupRequest{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "correct-horse",
		Role:     "user",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserRoleUser, resp.User.Role)
	assert.Empty(t, resp.User.ReferralCode)

	_, err = svc.Signup(db, &services.SignupRequest{
		Name: "Asha Again", Email: "asha@example.com", Password: "correct-horse", Role: "user",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// short passwords never reach the hasher
	_, err = svc.Signup(db, &services.SignupRequest{
		Name: "Short", Email: "short@example.com", Password: "abc", Role: "user",
	})
	require.Error(t, err)
}

func TestSignup_ReferrerGetsCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	resp, err := svc.Signup(db, &services.SignupRequest{
		Name:     "Ref One",
		Email:    "ref@example.com",
		Password: "long-enough",
		Role:     "referrer",
	})
	require.NoError(t, err)
	require.Len(t, resp.User.ReferralCode, 8)

	// a signup carrying the code is attributed to the referrer
	attributed, err := svc.Signup(db, &services.SignupRequest{
		Name:         "Friend",
		Email:        "friend@example.com",
		Password:     "long-enough",
		Role:         "user",
		ReferralCode: resp.User.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, attributed.User.ReferredBy)
	assert.Equal(t, resp.User.ID, *attributed.User.ReferredBy)

	_, err = svc.Signup(db, &services.SignupRequest{
		Name:         "Stranger",
		Email:        "stranger@example.com",
		Password:     "long-enough",
		Role:         "user",
		ReferralCode: "ZZZZ9999",
	})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	_, err := svc.Signup(db, &services.SignupRequest{
		Name: "Login User", Email: "login@example.com", Password: "long-enough", Role: "host",
	})
	require.NoError(t, err)

	resp, err := svc.Login(db, &services.LoginRequest{Email: "login@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// the same message covers wrong password and unknown email
	_, err = svc.Login(db, &services.LoginRequest{Email: "login@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	_, err = svc.Login(db, &services.LoginRequest{Email: "nobody@example.com", Password: "long-enough"})
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	resp, err := svc.Signup(db, &services.SignupRequest{
		Name: "Blocked Host", Email: "blocked@example.com", Password: "long-enough", Role: "host",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", resp.User.ID).
		Update("status", models.UserStatusInactive).Error)

	_, err = svc.Login(db, &services.LoginRequest{Email: "blocked@example.com", Password: "long-enough"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	user := createUser(t, db, models.UserRoleUser, "0")
	got, err := svc.GetProfile(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetProfile(db, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
