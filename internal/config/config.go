package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	// Payment gateway
	FapshiBaseURL string
	FapshiAPIUser string
	FapshiAPIKey  string
	RedirectURL   string

	// Onboarding fee charged when an application is submitted.
	OnboardingFee      int64
	OnboardingCurrency string

	// Notifications
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	MailFrom  string
	TeamEmail string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/biotec?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		FapshiBaseURL: getEnv("FAPSHI_BASE_URL", "https://sandbox.fapshi.com"),
		FapshiAPIUser: os.Getenv("FAPSHI_API_USER"),
		FapshiAPIKey:  os.Getenv("FAPSHI_API_KEY"),
		RedirectURL:   os.Getenv("FRONTEND_URL"),

		OnboardingFee:      getEnvInt64("ONBOARDING_FEE", 3000),
		OnboardingCurrency: getEnv("ONBOARDING_CURRENCY", "XAF"),

		SMTPHost:  getEnv("SMTP_HOST", "localhost"),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:  getEnv("MAIL_FROM", "no-reply@biotec.example"),
		TeamEmail: os.Getenv("TEAM_EMAIL"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}
