package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL       string
	JWTSecretKey      string
	AdminPasswordHash string
	ServerPort        int
	LogLevel          slog.Level
	CORSOrigins       []string

	Schedule ScheduleDefaults
	Fees     Fees
	R2       R2Config
}

// ScheduleDefaults are used when the administrator does not pass explicit allocation parameters.
type ScheduleDefaults struct {
	DayStart        string
	MatchMinutes    int
	IntervalMinutes int
	Courts          []string
}

type Fees struct {
	Participation int
	Insurance     int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether schedule snapshots should be published.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != "" && c.PublicBaseURL != ""
}

func (c R2Config) partial() bool {
	set := 0
	for _, v := range []string{c.AccountID, c.AccessKeyID, c.SecretAccessKey, c.BucketName, c.PublicBaseURL} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 5
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH environment variable is not set")
	}

	port, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	schedule, err := loadScheduleDefaults()
	if err != nil {
		return nil, err
	}

	participationFee, err := intFromEnv("PARTICIPATION_FEE", 0)
	if err != nil {
		return nil, err
	}
	insuranceFee, err := intFromEnv("INSURANCE_FEE", 0)
	if err != nil {
		return nil, err
	}
	if participationFee < 0 || insuranceFee < 0 {
		return nil, fmt.Errorf("fees must not be negative")
	}

	r2 := R2Config{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}
	if r2.partial() {
		return nil, fmt.Errorf("R2 configuration is incomplete: set all R2_* variables or none")
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		AdminPasswordHash: adminHash,
		ServerPort:        port,
		LogLevel:          level,
		CORSOrigins:       splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		Schedule:          schedule,
		Fees:              Fees{Participation: participationFee, Insurance: insuranceFee},
		R2:                r2,
	}

	return cfg, nil
}

func loadScheduleDefaults() (ScheduleDefaults, error) {
	matchMinutes, err := intFromEnv("SCHEDULE_MATCH_MINUTES", 15)
	if err != nil {
		return ScheduleDefaults{}, err
	}
	if matchMinutes < 1 {
		return ScheduleDefaults{}, fmt.Errorf("SCHEDULE_MATCH_MINUTES must be positive, got %d", matchMinutes)
	}

	interval, err := intFromEnv("SCHEDULE_INTERVAL_MINUTES", 5)
	if err != nil {
		return ScheduleDefaults{}, err
	}
	if interval < 0 {
		return ScheduleDefaults{}, fmt.Errorf("SCHEDULE_INTERVAL_MINUTES must not be negative, got %d", interval)
	}

	courts := splitList(getEnvOrDefault("SCHEDULE_COURTS", "A,B"))
	if len(courts) == 0 {
		return ScheduleDefaults{}, fmt.Errorf("SCHEDULE_COURTS must list at least one court")
	}

	return ScheduleDefaults{
		DayStart:        getEnvOrDefault("SCHEDULE_DAY_START", "10:00"),
		MatchMinutes:    matchMinutes,
		IntervalMinutes: interval,
		Courts:          courts,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intFromEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
