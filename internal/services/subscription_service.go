package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"festmatch_backend/internal/models"
	"festmatch_backend/internal/repositories"
	"festmatch_backend/internal/services/payment"
	"festmatch_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePackageRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=100"`
	Price            float64 `json:"price" validate:"required,gt=0"`
	Duration         string  `json:"duration" validate:"required,is-package-duration"`
	DailySwipeLimit  int     `json:"daily_swipe_limit" validate:"required,gt=0"`
	AllowBadge       bool    `json:"allow_badge"`
	CanSeeLikes      bool    `json:"can_see_likes"`
	PriorityMatching bool    `json:"priority_matching"`
	IsHidden         bool    `json:"is_hidden"`
}

type UpdatePackageRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Price            *float64 `json:"price" validate:"omitempty,gt=0"`
	DailySwipeLimit  *int     `json:"daily_swipe_limit" validate:"omitempty,gt=0"`
	AllowBadge       *bool    `json:"allow_badge"`
	CanSeeLikes      *bool    `json:"can_see_likes"`
	PriorityMatching *bool    `json:"priority_matching"`
	IsActive         *bool    `json:"is_active"`
	IsHidden         *bool    `json:"is_hidden"`
}

// CheckoutResponse carries the Cashfree session the client renders the
// payment page from.
type CheckoutResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	Amount           string `json:"amount"`
}

type SubscriptionService interface {
	ListVisiblePackages(db *gorm.DB) ([]models.SubscriptionPackage, error)
	ListAllPackages(db *gorm.DB, adminID string) ([]models.SubscriptionPackage, error)
	CreatePackage(db *gorm.DB, adminID string, req *CreatePackageRequest) (*models.SubscriptionPackage, error)
	UpdatePackage(db *gorm.DB, adminID, packageID string, req *UpdatePackageRequest) (*models.SubscriptionPackage, error)
	DeletePackage(db *gorm.DB, adminID, packageID string) error

	PurchasePackage(db *gorm.DB, userID, packageID string) error
	CreateCheckout(db *gorm.DB, userID, packageID string) (*CheckoutResponse, error)
	VerifyPayment(db *gorm.DB, orderID, cashfreePaymentID string) error
	ListMyPayments(db *gorm.DB, userID string) ([]models.SubscriptionPayment, error)

	ResetDailySwipeLimits(db *gorm.DB, now time.Time) (int64, error)
	ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error)
}

type subscriptionService struct {
	packageRepo repositories.PackageRepository
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	gateway     payment.Client
	freeSwipes  int
}

func NewSubscriptionService(
	packageRepo repositories.PackageRepository,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	gateway payment.Client,
	freeSwipes int,
) SubscriptionService {
	return &subscriptionService{
		packageRepo: packageRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		freeSwipes:  freeSwipes,
	}
}

func (s *subscriptionService) ListVisiblePackages(db *gorm.DB) ([]models.SubscriptionPackage, error) {
	packages, err := s.packageRepo.FindVisible(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return packages, nil
}

func (s *subscriptionService) ListAllPackages(db *gorm.DB, adminID string) ([]models.SubscriptionPackage, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}
	packages, err := s.packageRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return packages, nil
}

func (s *subscriptionService) CreatePackage(db *gorm.DB, adminID string, req *CreatePackageRequest) (*models.SubscriptionPackage, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}

	pkg := &models.SubscriptionPackage{
		Name:             req.Name,
		Price:            decimal.NewFromFloat(req.Price),
		Duration:         models.PackageDuration(req.Duration),
		DailySwipeLimit:  req.DailySwipeLimit,
		AllowBadge:       req.AllowBadge,
		CanSeeLikes:      req.CanSeeLikes,
		PriorityMatching: req.PriorityMatching,
		IsActive:         true,
		IsHidden:         req.IsHidden,
	}
	if err := s.packageRepo.Create(db, pkg); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pkg, nil
}

func (s *subscriptionService) UpdatePackage(db *gorm.DB, adminID, packageID string, req *UpdatePackageRequest) (*models.SubscriptionPackage, error) {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.FindByID(db, packageID)
	if err != nil {
		if errors.Is(err, repositories.ErrPackageNotFound) {
			return nil, apperrors.NewNotFoundError("subscription", "Package not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Price != nil {
		pkg.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.DailySwipeLimit != nil {
		pkg.DailySwipeLimit = *req.DailySwipeLimit
	}
	if req.AllowBadge != nil {
		pkg.AllowBadge = *req.AllowBadge
	}
	if req.CanSeeLikes != nil {
		pkg.CanSeeLikes = *req.CanSeeLikes
	}
	if req.PriorityMatching != nil {
		pkg.PriorityMatching = *req.PriorityMatching
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	if req.IsHidden != nil {
		pkg.IsHidden = *req.IsHidden
	}

	if err := s.packageRepo.Update(db, pkg); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pkg, nil
}

// DeletePackage refuses to remove a package that any user is still
// subscribed to; admins hide those instead.
func (s *subscriptionService) DeletePackage(db *gorm.DB, adminID, packageID string) error {
	if err := requireAdmin(db, s.userRepo, adminID); err != nil {
		return err
	}

	count, err := s.packageRepo.CountSubscribers(db, packageID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return apperrors.NewConflictError("subscription", "Package has active subscribers and cannot be deleted")
	}

	if err := s.packageRepo.Delete(db, packageID); err != nil {
		if errors.Is(err, repositories.ErrPackageNotFound) {
			return apperrors.NewNotFoundError("subscription", "Package not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// PurchasePackage applies a zero-gateway purchase, used for free promotional
// packages. Paid packages must go through the Cashfree checkout.
func (s *subscriptionService) PurchasePackage(db *gorm.DB, userID, packageID string) error {
	pkg, err := s.packageRepo.FindByID(db, packageID)
	if err != nil {
		if errors.Is(err, repositories.ErrPackageNotFound) {
			return apperrors.NewNotFoundError("subscription", "Package not found")
		}
		return apperrors.InternalError(err)
	}
	if !pkg.IsActive {
		return apperrors.NewConflictError("subscription", "Package is not available for purchase")
	}
	if pkg.Price.IsPositive() {
		return apperrors.NewBadRequestError("This package requires payment")
	}

	now := time.Now()
	endDate := ComputeEndDate(now, pkg.Duration)
	if err := s.userRepo.ApplySubscription(db, userID, pkg, endDate, s.freeSwipes, now); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// CreateCheckout opens a Cashfree order for the package and records the
// pending payment. The order id encodes the creation time and buyer.
func (s *subscriptionService) CreateCheckout(db *gorm.DB, userID, packageID string) (*CheckoutResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Unknown user")
	}

	pkg, err := s.packageRepo.FindByID(db, packageID)
	if err != nil {
		if errors.Is(err, repositories.ErrPackageNotFound) {
			return nil, apperrors.NewNotFoundError("subscription", "Package not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !pkg.IsActive {
		return nil, apperrors.NewConflictError("subscription", "Package is not available for purchase")
	}

	orderID := fmt.Sprintf("PKG_%d_%s", time.Now().Unix(), userID)
	amount, _ := pkg.Price.Float64()

	tags := map[string]string{
		"package_id":   pkg.ID,
		"package_name": pkg.Name,
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	record := &models.SubscriptionPayment{
		UserID:          userID,
		PackageID:       pkg.ID,
		Amount:          pkg.Price,
		CashfreeOrderID: orderID,
		Status:          models.PaymentStatusPending,
		OrderTags:       tagsJSON,
	}
	if err := s.paymentRepo.Create(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	session, err := s.gateway.CreateOrder(payment.OrderRequest{
		OrderID:       orderID,
		Amount:        amount,
		Currency:      "INR",
		CustomerID:    user.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		Tags:          tags,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError("subscription", err)
	}

	return &CheckoutResponse{
		OrderID:          orderID,
		PaymentSessionID: session.PaymentSessionID,
		Amount:           pkg.Price.StringFixed(2),
	}, nil
}

// VerifyPayment completes the pending payment and applies the subscription
// in one transaction. The callback parameters only identify the order; the
// gateway is asked directly whether it was paid before anything is granted.
// A second verification of the same order changes nothing and reports a
// conflict.
func (s *subscriptionService) VerifyPayment(db *gorm.DB, orderID, cashfreePaymentID string) error {
	record, err := s.paymentRepo.FindByOrderID(db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return apperrors.NewNotFoundError("subscription", "Payment not found")
		}
		return apperrors.InternalError(err)
	}

	pkg, err := s.packageRepo.FindByID(db, record.PackageID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	status, err := s.gateway.GetOrderStatus(orderID)
	if err != nil {
		return apperrors.NewUpstreamError("subscription", err)
	}
	if !status.Paid() {
		return apperrors.NewInvalidStatusError("subscription", "Order has not been paid")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		ok, err := s.paymentRepo.CompleteByOrderID(tx, orderID, cashfreePaymentID, now)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			return apperrors.NewConflictError("subscription", "Payment already processed")
		}

		endDate := ComputeEndDate(now, pkg.Duration)
		if err := s.userRepo.ApplySubscription(tx, record.UserID, pkg, endDate, s.freeSwipes, now); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
}

func (s *subscriptionService) ListMyPayments(db *gorm.DB, userID string) ([]models.SubscriptionPayment, error) {
	payments, err := s.paymentRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

// ResetDailySwipeLimits refreshes the daily counter for subscribed users.
// Safe to run more than once per day; later runs touch nothing.
func (s *subscriptionService) ResetDailySwipeLimits(db *gorm.DB, now time.Time) (int64, error) {
	return s.userRepo.ResetDailySwipes(db, now)
}

// ExpireSubscriptions clears subscription state once the end date passes.
func (s *subscriptionService) ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error) {
	return s.userRepo.ExpireSubscriptions(db, now)
}

// ComputeEndDate resolves a package duration into a subscription end date.
// Lifetime packages return nil, which downstream code treats as never
// expiring. Month arithmetic clamps to the last day of the target month, so
// a purchase on Jan 31 ends Feb 28 (or 29), not Mar 2.
func ComputeEndDate(from time.Time, duration models.PackageDuration) *time.Time {
	var end time.Time
	switch duration {
	case models.DurationMonthly:
		end = addMonthsClamped(from, 1)
	case models.DurationQuarterly:
		end = addMonthsClamped(from, 3)
	case models.DurationYearly:
		end = addMonthsClamped(from, 12)
	case models.DurationLifetime:
		return nil
	default:
		return nil
	}
	return &end
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	targetMonth := time.Month(int(month) + months)
	first := time.Date(year, targetMonth, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -first.Day()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
