package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Cashfree struct {
		AppID     string `yaml:"app_id"`
		SecretKey string `yaml:"secret_key"`
		BaseURL   string `yaml:"base_url"`
		ReturnURL string `yaml:"return_url"`
	} `yaml:"cashfree"`

	Platform struct {
		MinWithdrawal       float64 `yaml:"min_withdrawal"`        // INR
		PlatformFeePercent  float64 `yaml:"platform_fee_percent"`  // share kept from bookings
		ReferralFeePercent  float64 `yaml:"referral_fee_percent"`  // share credited to referrers
		FreeSwipesOnRefresh int     `yaml:"free_swipes_on_refresh"`
	} `yaml:"platform"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig populates AppConfig from config/config.yaml, or from environment
// variables when DATABASE_URL is set (the mode used by tests and containers).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUser = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.Email.FromName = "Festmatch"

	cfg.Cashfree.AppID = os.Getenv("CASHFREE_APP_ID")
	cfg.Cashfree.SecretKey = os.Getenv("CASHFREE_SECRET_KEY")
	cfg.Cashfree.BaseURL = os.Getenv("CASHFREE_BASE_URL")
	cfg.Cashfree.ReturnURL = os.Getenv("CASHFREE_RETURN_URL")

	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Platform.MinWithdrawal == 0 {
		cfg.Platform.MinWithdrawal = 100
	}
	if cfg.Platform.PlatformFeePercent == 0 {
		cfg.Platform.PlatformFeePercent = 10
	}
	if cfg.Platform.ReferralFeePercent == 0 {
		cfg.Platform.ReferralFeePercent = 5
	}
	if cfg.Platform.FreeSwipesOnRefresh == 0 {
		cfg.Platform.FreeSwipesOnRefresh = 3
	}
	if cfg.Cashfree.BaseURL == "" {
		cfg.Cashfree.BaseURL = "https://sandbox.cashfree.com/pg"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
