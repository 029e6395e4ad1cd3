package app

import (
	"errors"
	"fmt"

	"festmatch_backend/internal/auth"
	"festmatch_backend/internal/config"
	"festmatch_backend/internal/email"
	"festmatch_backend/internal/handlers"
	"festmatch_backend/internal/logger"
	"festmatch_backend/internal/models"
	"festmatch_backend/internal/routes"
	"festmatch_backend/internal/services"
	"festmatch_backend/internal/services/payment"
	"festmatch_backend/internal/validator"
	"festmatch_backend/internal/workers"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	serviceContainer := initializeServices(cfg)

	worker := workers.NewQuotaWorker(gormDB, serviceContainer.Subscription)
	if err := worker.Start(); err != nil {
		logger.Fatal("Failed to start quota worker", "error", err)
	}
	defer worker.Stop()

	appHandlers := handlers.NewAppHandlers(validator.New(), serviceContainer)
	router := routes.SetupRouter(gormDB, appHandlers)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// Migrate applies the schema for every model. Also used by tests against
// the in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(email.Config{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUser:     cfg.Email.SMTPUser,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			FromName:     cfg.Email.FromName,
		})
		logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = email.NoopProvider{}
		logger.Warn("SMTP is not configured, emails will only be logged")
	}

	gateway := payment.NewCashfreeClient(cfg)

	return services.NewServiceContainer(cfg, emailProvider, gateway)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var adminUser models.User
		result := tx.Where("email = ?", adminEmail).First(&adminUser)
		if result.Error == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		newAdmin := &models.User{
			Email:        adminEmail,
			PasswordHash: hash,
			Name:         "Platform Admin",
			Role:         models.UserRoleAdmin,
			Status:       models.UserStatusActive,
		}
		if err := tx.Create(newAdmin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("First admin user created", "email", adminEmail)
		return nil
	})
}
