package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // PAYROLL_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/timewindow"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// PayrollConfig holds the engine's clock and money settings
type PayrollConfig struct {
	Location      *time.Location
	NightStart    int // minute of day
	NightEnd      int
	Premiums      payroll.Premiums
	Rates         payroll.RateTable
	WeeklyRestDay time.Weekday

	BatchConcurrency int
	AlarmLead        time.Duration
	AlarmInterval    time.Duration
}

// NotificationConfig controls how long read notifications are kept
type NotificationConfig struct {
	Retention     time.Duration
	PurgeInterval time.Duration
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftpay"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	config.Database.MaxConns = int32(maxConns)
	config.Database.MinConns = int32(minConns)

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	retention, err := time.ParseDuration(getEnv("NOTIFICATION_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION: %w", err)
	}
	purgeInterval, err := time.ParseDuration(getEnv("NOTIFICATION_PURGE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_PURGE_INTERVAL: %w", err)
	}
	config.Notification = NotificationConfig{Retention: retention, PurgeInterval: purgeInterval}

	config.Payroll, err = LoadPayroll()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadPayroll reads only the payroll section, for tools that price shifts
// without a database.
func LoadPayroll() (PayrollConfig, error) {
	var (
		p   PayrollConfig
		err error
	)

	p.Location, err = time.LoadLocation(getEnv("PAYROLL_TIMEZONE", "Asia/Seoul"))
	if err != nil {
		return p, fmt.Errorf("invalid PAYROLL_TIMEZONE: %w", err)
	}

	if p.NightStart, err = timewindow.ParseClock(getEnv("NIGHT_WINDOW_START", "22:00")); err != nil {
		return p, fmt.Errorf("invalid NIGHT_WINDOW_START: %w", err)
	}
	if p.NightEnd, err = timewindow.ParseClock(getEnv("NIGHT_WINDOW_END", "06:00")); err != nil {
		return p, fmt.Errorf("invalid NIGHT_WINDOW_END: %w", err)
	}

	rates := []struct {
		key      string
		fallback string
		dst      *decimal.Decimal
	}{
		{"NIGHT_PREMIUM_RATE", "0.5", &p.Premiums.Night},
		{"HOLIDAY_PREMIUM_RATE", "0.5", &p.Premiums.Holiday},
		{"NATIONAL_PENSION_RATE", "0.045", &p.Rates.NationalPension},
		{"HEALTH_INSURANCE_RATE", "0.03545", &p.Rates.HealthInsurance},
		{"EMPLOYMENT_INSURANCE_RATE", "0.009", &p.Rates.EmploymentInsurance},
		{"INDUSTRIAL_ACCIDENT_RATE", "0", &p.Rates.IndustrialAccident},
		{"INCOME_TAX_RATE", "0.033", &p.Rates.IncomeTax},
	}
	for _, r := range rates {
		*r.dst, err = decimal.NewFromString(getEnv(r.key, r.fallback))
		if err != nil {
			return p, fmt.Errorf("invalid %s: %w", r.key, err)
		}
	}

	if p.WeeklyRestDay, err = timewindow.ParseWeekday(getEnv("WEEKLY_REST_DAY", "SUNDAY")); err != nil {
		return p, fmt.Errorf("invalid WEEKLY_REST_DAY: %w", err)
	}

	if p.BatchConcurrency, err = strconv.Atoi(getEnv("BATCH_WORKER_CONCURRENCY", "4")); err != nil {
		return p, fmt.Errorf("invalid BATCH_WORKER_CONCURRENCY: %w", err)
	}
	if p.AlarmLead, err = time.ParseDuration(getEnv("SHIFT_ALARM_LEAD", "30m")); err != nil {
		return p, fmt.Errorf("invalid SHIFT_ALARM_LEAD: %w", err)
	}
	if p.AlarmInterval, err = time.ParseDuration(getEnv("SHIFT_ALARM_INTERVAL", "5m")); err != nil {
		return p, fmt.Errorf("invalid SHIFT_ALARM_INTERVAL: %w", err)
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.Notification.Retention <= 0 || c.Notification.PurgeInterval <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION and NOTIFICATION_PURGE_INTERVAL must be positive")
	}
	return c.Payroll.Validate()
}

func (p PayrollConfig) Validate() error {
	if p.NightStart == p.NightEnd {
		return fmt.Errorf("night window must not be empty")
	}
	named := map[string]decimal.Decimal{
		"NIGHT_PREMIUM_RATE":        p.Premiums.Night,
		"HOLIDAY_PREMIUM_RATE":      p.Premiums.Holiday,
		"NATIONAL_PENSION_RATE":     p.Rates.NationalPension,
		"HEALTH_INSURANCE_RATE":     p.Rates.HealthInsurance,
		"EMPLOYMENT_INSURANCE_RATE": p.Rates.EmploymentInsurance,
		"INDUSTRIAL_ACCIDENT_RATE":  p.Rates.IndustrialAccident,
		"INCOME_TAX_RATE":           p.Rates.IncomeTax,
	}
	for key, v := range named {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	if p.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_WORKER_CONCURRENCY must be at least 1")
	}
	if p.AlarmLead <= 0 || p.AlarmInterval <= 0 {
		return fmt.Errorf("SHIFT_ALARM_LEAD and SHIFT_ALARM_INTERVAL must be positive")
	}
	return nil
}

// Resolver builds the night-window resolver for the configured zone.
func (p PayrollConfig) Resolver() (*timewindow.Resolver, error) {
	return timewindow.NewResolver(p.Location, p.NightStart, p.NightEnd)
}

// SlogLevel maps LOG_LEVEL onto slog; unknown values mean info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
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

// Pool returns the connection pool settings for database.Connect.
func (c *Config) Pool() database.PoolConfig {
	return database.PoolConfig{
		DSN:      c.DatabaseURL(),
		MaxConns: c.Database.MaxConns,
		MinConns: c.Database.MinConns,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
