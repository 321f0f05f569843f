package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Shift    ShiftConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds verification settings for the external identity provider's
// tokens.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// ShiftConfig holds the shift-engine tuning knobs: tolerance windows,
// violation thresholds and sweep intervals.
type ShiftConfig struct {
	ToleranceMinutes        int
	SeverityMinorMax        int
	SeverityModerateMax     int
	SeverityMajorMax        int
	OverdueExplanationDays  int
	MaxResubmissions        int
	EscalationEnabled       bool
	EvidenceMaxSizeMB       int
	SwapDefaultExpiryHours  int
	SwapSweepInterval       time.Duration
	ReconcileInterval       time.Duration
}

type PayrollConfig struct {
	LatePenaltyRate   string // fraction of base salary per late arrival
	AbsentPenaltyRate string // fraction of base salary per absent day
	WorkingDaysPerMonth int
	WorkingHoursPerDay  int
}

func Load() (*Config, error) {
	// Missing .env is fine in production; env vars may come from the runtime.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftops"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.Shift = ShiftConfig{
		ToleranceMinutes:       getEnvInt("SHIFT_TOLERANCE_MINUTES", 15),
		SeverityMinorMax:       getEnvInt("VIOLATION_MINOR_MAX_MINUTES", 30),
		SeverityModerateMax:    getEnvInt("VIOLATION_MODERATE_MAX_MINUTES", 60),
		SeverityMajorMax:       getEnvInt("VIOLATION_MAJOR_MAX_MINUTES", 120),
		OverdueExplanationDays: getEnvInt("VIOLATION_OVERDUE_DAYS", 3),
		MaxResubmissions:       getEnvInt("VIOLATION_MAX_RESUBMISSIONS", 3),
		EscalationEnabled:      getEnv("VIOLATION_ESCALATION_ENABLED", "false") == "true",
		EvidenceMaxSizeMB:      getEnvInt("EVIDENCE_MAX_SIZE_MB", 10),
		SwapDefaultExpiryHours: getEnvInt("SWAP_DEFAULT_EXPIRY_HOURS", 48),
		SwapSweepInterval:      getEnvDuration("SWAP_SWEEP_INTERVAL", 15*time.Minute),
		ReconcileInterval:      getEnvDuration("RECONCILE_INTERVAL", 1*time.Hour),
	}

	config.Payroll = PayrollConfig{
		LatePenaltyRate:     getEnv("PAYROLL_LATE_PENALTY_RATE", "0.01"),
		AbsentPenaltyRate:   getEnv("PAYROLL_ABSENT_PENALTY_RATE", "0.05"),
		WorkingDaysPerMonth: getEnvInt("PAYROLL_WORKING_DAYS_PER_MONTH", 22),
		WorkingHoursPerDay:  getEnvInt("PAYROLL_WORKING_HOURS_PER_DAY", 8),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Shift.ToleranceMinutes < 0 {
		return fmt.Errorf("SHIFT_TOLERANCE_MINUTES must not be negative")
	}
	if c.Shift.SeverityMinorMax >= c.Shift.SeverityModerateMax ||
		c.Shift.SeverityModerateMax >= c.Shift.SeverityMajorMax {
		return fmt.Errorf("violation severity thresholds must be strictly increasing")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
