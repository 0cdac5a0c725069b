package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	Environment        string
	SeedAdminEmail     string
	SeedAdminPassword  string
	AllowSelfSignup    bool
	RunMigrations      bool
	RunSeed            bool
	MaxBodyBytes       int64
	MaxAvatarBytes     int64
	RateLimitPerMinute int
	TokenTTL           time.Duration

	// Attendance window checks run against a fixed wall clock, not the
	// server's locale.
	EligibilityZone   string
	MaxDistanceMeters float64

	// Lower bounds of the selectable year range on each dashboard.
	AdminMinYear    int
	EmployeeMinYear int
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		Environment:        getEnv("APP_ENV", "development"),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		AllowSelfSignup:    getEnvBool("ALLOW_SELF_SIGNUP", true),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MaxAvatarBytes:     int64(getEnvInt("MAX_AVATAR_BYTES", 5242880)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 8*time.Hour),
		EligibilityZone:    getEnv("ELIGIBILITY_ZONE", "Asia/Kolkata"),
		MaxDistanceMeters:  float64(getEnvInt("MAX_DISTANCE_METERS", 500)),
		AdminMinYear:       getEnvInt("ADMIN_MIN_YEAR", 2000),
		EmployeeMinYear:    getEnvInt("EMPLOYEE_MIN_YEAR", 2018),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if _, err := time.LoadLocation(c.EligibilityZone); err != nil {
		return fmt.Errorf("ELIGIBILITY_ZONE %q is not a valid IANA zone", c.EligibilityZone)
	}
	if c.MaxDistanceMeters <= 0 {
		return fmt.Errorf("MAX_DISTANCE_METERS must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.AdminMinYear > c.EmployeeMinYear {
		return fmt.Errorf("ADMIN_MIN_YEAR must not be later than EMPLOYEE_MIN_YEAR")
	}
	return nil
}
