package services_test

import (
	"strings"
	"testing"
	"time"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/internal/services"
	"festmatch_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubscriptionService(gateway *stubGateway) services.SubscriptionService {
	return services.NewSubscriptionService(
		repositories.NewPackageRepository(),
		repositories.NewPaymentRepository(),
		repositories.NewUserRepository(),
		gateway,
		3,
	)
}

func createPackage(t *testing.T, db *gorm.DB, name string, price string, duration models.PackageDuration) *models.SubscriptionPackage {
	t.Helper()
	pkg := &models.SubscriptionPackage{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		Duration:        duration,
		DailySwipeLimit: 25,
		IsActive:        true,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func TestComputeEndDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name     string
		from     time.Time
		duration models.PackageDuration
		want     *time.Time
	}{
		{
			name:     "monthly from jan 31 clamps to leap feb",
			from:     time.Date(2024, 1, 31, 10, 0, 0, 0, ist),
			duration: models.DurationMonthly,
			want:     timePtr(time.Date(2024, 2, 29, 10, 0, 0, 0, ist)),
		},
		{
			name:     "monthly from jan 31 clamps to feb 28",
			from:     time.Date(2025, 1, 31, 10, 0, 0, 0, ist),
			duration: models.DurationMonthly,
			want:     timePtr(time.Date(2025, 2, 28, 10, 0, 0, 0, ist)),
		},
		{
			name:     "quarterly from jan 31 clamps to apr 30",
			from:     time.Date(2024, 1, 31, 10, 0, 0, 0, ist),
			duration: models.DurationQuarterly,
			want:     timePtr(time.Date(2024, 4, 30, 10, 0, 0, 0, ist)),
		},
		{
			name:     "yearly from feb 29 clamps to feb 28",
			from:     time.Date(2024, 2, 29, 10, 0, 0, 0, ist),
			duration: models.DurationYearly,
			want:     timePtr(time.Date(2025, 2, 28, 10, 0, 0, 0, ist)),
		},
		{
			name:     "mid-month monthly is plain addition",
			from:     time.Date(2024, 3, 15, 10, 0, 0, 0, ist),
			duration: models.DurationMonthly,
			want:     timePtr(time.Date(2024, 4, 15, 10, 0, 0, 0, ist)),
		},
		{
			name:     "lifetime has no end date",
			from:     time.Date(2024, 1, 31, 10, 0, 0, 0, ist),
			duration: models.DurationLifetime,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.ComputeEndDate(tt.from, tt.duration)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %v, got %v", tt.want, got)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateCheckout(t *testing.T) {
	db := setupTestDB(t)
	gateway := &stubGateway{}
	svc := newSubscriptionService(gateway)

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold Monthly", "499", models.DurationMonthly)

	resp, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.OrderID, "PKG_"))
	assert.True(t, strings.HasSuffix(resp.OrderID, "_"+user.ID))
	assert.Equal(t, "499.00", resp.Amount)
	assert.NotEmpty(t, resp.PaymentSessionID)

	require.Len(t, gateway.orders, 1)
	assert.Equal(t, user.Email, gateway.orders[0].CustomerEmail)
	assert.Equal(t, pkg.ID, gateway.orders[0].Tags["package_id"])

	var record models.SubscriptionPayment
	require.NoError(t, db.First(&record, "cashfree_order_id = ?", resp.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, record.Status)
	assert.True(t, record.Amount.Equal(pkg.Price))
}

func TestCreateCheckout_GatewayFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{fail: true})

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold Monthly", "499", models.DurationMonthly)

	_, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestVerifyPayment_AppliesSubscriptionOnce(t *testing.T) {
	db := setupTestDB(t)
	gateway := &stubGateway{}
	svc := newSubscriptionService(gateway)

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold Quarterly", "1299", models.DurationQuarterly)

	resp, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.NoError(t, err)

	gateway.settle(resp.OrderID)
	require.NoError(t, svc.VerifyPayment(db, resp.OrderID, "cf_12345"))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NotNil(t, updated.ActivePackageID)
	assert.Equal(t, pkg.ID, *updated.ActivePackageID)
	require.NotNil(t, updated.SubscriptionEndDate)
	assert.Equal(t, 25, updated.DailySwipeRemaining)
	assert.Equal(t, 3, updated.FreeSwipesRemaining)

	var record models.SubscriptionPayment
	require.NoError(t, db.First(&record, "cashfree_order_id = ?", resp.OrderID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, record.Status)
	assert.Equal(t, "cf_12345", record.CashfreePaymentID)
	require.NotNil(t, record.PaidAt)

	// the gateway retries its callback; the second attempt is a conflict and
	// changes nothing
	err = svc.VerifyPayment(db, resp.OrderID, "cf_99999")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	require.NoError(t, db.First(&record, "cashfree_order_id = ?", resp.OrderID).Error)
	assert.Equal(t, "cf_12345", record.CashfreePaymentID)
}

func TestVerifyPayment_UnpaidOrderGrantsNothing(t *testing.T) {
	db := setupTestDB(t)
	gateway := &stubGateway{}
	svc := newSubscriptionService(gateway)

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold Monthly", "499", models.DurationMonthly)

	resp, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.NoError(t, err)

	// the buyer abandons the session and posts the callback themselves
	err = svc.VerifyPayment(db, resp.OrderID, "cf_forged")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Nil(t, updated.ActivePackageID)

	var record models.SubscriptionPayment
	require.NoError(t, db.First(&record, "cashfree_order_id = ?", resp.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, record.Status)

	// once the gateway reports the order paid the same callback succeeds
	gateway.settle(resp.OrderID)
	require.NoError(t, svc.VerifyPayment(db, resp.OrderID, "cf_real"))
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NotNil(t, updated.ActivePackageID)
}

func TestVerifyPayment_GatewayUnavailable(t *testing.T) {
	db := setupTestDB(t)
	gateway := &stubGateway{}
	svc := newSubscriptionService(gateway)

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold Monthly", "499", models.DurationMonthly)

	resp, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.NoError(t, err)

	gateway.fail = true
	err = svc.VerifyPayment(db, resp.OrderID, "cf_1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestVerifyPayment_LifetimePackage(t *testing.T) {
	db := setupTestDB(t)
	gateway := &stubGateway{}
	svc := newSubscriptionService(gateway)

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Lifetime", "9999", models.DurationLifetime)

	resp, err := svc.CreateCheckout(db, user.ID, pkg.ID)
	require.NoError(t, err)
	gateway.settle(resp.OrderID)
	require.NoError(t, svc.VerifyPayment(db, resp.OrderID, "cf_1"))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NotNil(t, updated.ActivePackageID)
	assert.Nil(t, updated.SubscriptionEndDate)
}

func TestPurchasePackage_FreeOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{})

	user := createUser(t, db, models.UserRoleUser, "0")
	paid := createPackage(t, db, "Gold", "499", models.DurationMonthly)
	free := createPackage(t, db, "Starter", "0", models.DurationMonthly)

	err := svc.PurchasePackage(db, user.ID, paid.ID)
	require.Error(t, err)

	require.NoError(t, svc.PurchasePackage(db, user.ID, free.ID))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NotNil(t, updated.ActivePackageID)
	assert.Equal(t, free.ID, *updated.ActivePackageID)
}

func TestPackageAdminCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{})

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	user := createUser(t, db, models.UserRoleUser, "0")

	pkg, err := svc.CreatePackage(db, admin.ID, &services.CreatePackageRequest{
		Name: "Gold", Price: 499, Duration: string(models.DurationMonthly), DailySwipeLimit: 25,
	})
	require.NoError(t, err)

	// non-admins are rejected regardless of handler-level routing
	_, err = svc.CreatePackage(db, user.ID, &services.CreatePackageRequest{
		Name: "X", Price: 1, Duration: string(models.DurationMonthly), DailySwipeLimit: 1,
	})
	require.Error(t, err)

	hidden := true
	updated, err := svc.UpdatePackage(db, admin.ID, pkg.ID, &services.UpdatePackageRequest{IsHidden: &hidden})
	require.NoError(t, err)
	assert.True(t, updated.IsHidden)

	// hidden packages disappear from the public list
	visible, err := svc.ListVisiblePackages(db)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.ListAllPackages(db, admin.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeletePackage_SubscriberGuard(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{})

	admin := createUser(t, db, models.UserRoleAdmin, "0")
	user := createUser(t, db, models.UserRoleUser, "0")
	free := createPackage(t, db, "Starter", "0", models.DurationMonthly)

	require.NoError(t, svc.PurchasePackage(db, user.ID, free.ID))

	err := svc.DeletePackage(db, admin.ID, free.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// drop the subscriber, then deletion goes through
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("active_package_id", nil).Error)
	require.NoError(t, svc.DeletePackage(db, admin.ID, free.ID))
}

func TestResetDailySwipeLimits_IdempotentPerDay(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{})

	user := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold", "0", models.DurationMonthly)
	require.NoError(t, svc.PurchasePackage(db, user.ID, pkg.ID))

	// burn some swipes and age the last reset to yesterday
	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"daily_swipe_remaining": 2,
			"last_swipe_reset":      yesterday,
		}).Error)

	count, err := svc.ResetDailySwipeLimits(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Equal(t, 25, updated.DailySwipeRemaining)

	// second run the same day touches nobody
	count, err = svc.ResetDailySwipeLimits(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestExpireSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	svc := newSubscriptionService(&stubGateway{})

	expired := createUser(t, db, models.UserRoleUser, "0")
	lifetime := createUser(t, db, models.UserRoleUser, "0")
	pkg := createPackage(t, db, "Gold", "0", models.DurationMonthly)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", expired.ID).
		Updates(map[string]interface{}{
			"active_package_id":     pkg.ID,
			"subscription_end_date": past,
			"daily_swipe_remaining": 25,
		}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", lifetime.ID).
		Updates(map[string]interface{}{
			"active_package_id":     pkg.ID,
			"daily_swipe_remaining": 25,
		}).Error)

	count, err := svc.ExpireSubscriptions(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var u1, u2 models.User
	require.NoError(t, db.First(&u1, "id = ?", expired.ID).Error)
	require.NoError(t, db.First(&u2, "id = ?", lifetime.ID).Error)
	assert.Nil(t, u1.ActivePackageID)
	assert.Equal(t, 0, u1.DailySwipeRemaining)
	require.NotNil(t, u2.ActivePackageID)
	assert.Equal(t, 25, u2.DailySwipeRemaining)
}
