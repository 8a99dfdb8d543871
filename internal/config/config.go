package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	MongoURI string
	MongoDB  string

	JWTSecret  string
	SessionTTL time.Duration

	PageSize int

	SendGridKey string
	MailFrom    string

	StripeKey string
	BaseURL   string

	InvoiceDir string

	CORSOrigin string
}

func Load() Config {
	return Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		MongoURI:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "storefront"),
		JWTSecret:   getEnv("JWT_SECRET", "SECRET"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		PageSize:    getEnvInt("PAGE_SIZE", 2),
		SendGridKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:    getEnv("MAIL_FROM", "shop@example.com"),
		StripeKey:   getEnv("STRIPE_KEY", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		InvoiceDir:  getEnv("INVOICE_DIR", "data/invoices"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
