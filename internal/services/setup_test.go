package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"festmatch_backend/internal/config"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/services/payment"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.BankAccount{},
		&models.SubscriptionPackage{},
		&models.SubscriptionPayment{},
		&models.Payout{},
		&models.WalletTransaction{},
		&models.DatingKycRequest{},
		&models.HostKyc{},
		&models.HostReport{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func init() {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	config.AppConfig.Platform.MinWithdrawal = 100
	config.AppConfig.Platform.PlatformFeePercent = 10
	config.AppConfig.Platform.ReferralFeePercent = 5
	config.AppConfig.Platform.FreeSwipesOnRefresh = 3
}

var userSeq int64

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, balance string) *models.User {
	t.Helper()
	n := atomic.AddInt64(&userSeq, 1)
	user := &models.User{
		Email:         fmt.Sprintf("user%d@test.in", n),
		PasswordHash:  "x",
		Name:          fmt.Sprintf("User %d", n),
		Phone:         "+911234567890",
		Role:          role,
		Status:        models.UserStatusActive,
		WalletBalance: decimal.RequireFromString(balance),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func approveHostKyc(t *testing.T, db *gorm.DB, userID string) *models.HostKyc {
	t.Helper()
	kyc := &models.HostKyc{
		UserID:        userID,
		DocType:       models.KycDocPan,
		DocFrontURL:   "https://cdn.test/front.jpg",
		SelfieURL:     "https://cdn.test/selfie.jpg",
		Status:        models.KycStatusApproved,
		AccountHolder: "Test Host",
		AccountNumber: "123456789012",
		IFSC:          "HDFC0001234",
		BankName:      "HDFC Bank",
	}
	if err := db.Create(kyc).Error; err != nil {
		t.Fatalf("failed to create host kyc: %v", err)
	}
	return kyc
}

// recordingEmail captures sends so tests can assert on notifications without
// touching SMTP.
type recordingEmail struct {
	sent []string
}

func (r *recordingEmail) SendPayoutRequested(name, to string, amount decimal.Decimal, payoutID string) error {
	r.sent = append(r.sent, "payout_requested:"+to)
	return nil
}

func (r *recordingEmail) SendPayoutApproved(name, to string, amount decimal.Decimal, accountNumber, bankName string) error {
	r.sent = append(r.sent, "payout_approved:"+to)
	return nil
}

func (r *recordingEmail) SendPayoutRejected(name, to string, amount decimal.Decimal) error {
	r.sent = append(r.sent, "payout_rejected:"+to)
	return nil
}

func (r *recordingEmail) SendKycDecision(name, to, queue string, approved bool, reason string) error {
	r.sent = append(r.sent, fmt.Sprintf("kyc_decision:%s:%s:%t", to, queue, approved))
	return nil
}

func (r *recordingEmail) SendBookingConfirmed(name, to, eventTitle string, quantity int, amount decimal.Decimal, ticketCode string) error {
	r.sent = append(r.sent, "booking_confirmed:"+to)
	return nil
}

// stubGateway returns a canned session and records the orders it saw.
// Orders report ACTIVE until a test settles them.
type stubGateway struct {
	orders []payment.OrderRequest
	paid   map[string]bool
	fail   bool
}

func (g *stubGateway) CreateOrder(req payment.OrderRequest) (*payment.OrderSession, error) {
	if g.fail {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.orders = append(g.orders, req)
	return &payment.OrderSession{PaymentSessionID: "session_" + req.OrderID, OrderID: req.OrderID}, nil
}

func (g *stubGateway) GetOrderStatus(orderID string) (*payment.OrderStatus, error) {
	if g.fail {
		return nil, fmt.Errorf("gateway unavailable")
	}
	status := payment.OrderStatusActive
	if g.paid[orderID] {
		status = payment.OrderStatusPaid
	}
	return &payment.OrderStatus{OrderID: orderID, Status: status}, nil
}

func (g *stubGateway) settle(orderID string) {
	if g.paid == nil {
		g.paid = make(map[string]bool)
	}
	g.paid[orderID] = true
}

func walletBalance(t *testing.T, db *gorm.DB, userID string) decimal.Decimal {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	return user.WalletBalance
}

func ledgerSum(t *testing.T, db *gorm.DB, userID string) decimal.Decimal {
	t.Helper()
	var txs []models.WalletTransaction
	if err := db.Where("user_id = ?", userID).Find(&txs).Error; err != nil {
		t.Fatalf("failed to load ledger: %v", err)
	}
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}
