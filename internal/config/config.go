package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DBUrl               string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendBaseURL     string
	SupabaseURL         string
	SupabaseBucket      string
	SupabaseServiceKey  string
	AppEnv              string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBUrl:               getEnv("DB_URL", ""),
		JWTSecret:           jwtSecret,
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		FrontendBaseURL:     getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		SupabaseURL:         getEnv("SUPABASE_URL", ""),
		SupabaseBucket:      getEnv("SUPABASE_BUCKET", ""),
		SupabaseServiceKey:  getEnv("SUPABASE_SERVICE_KEY", ""),
		AppEnv:              normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

// PaymentsEnabled reports whether both Stripe secrets are present. Without
// them the checkout and webhook routes are not registered.
func (c *Config) PaymentsEnabled() bool {
	return c != nil && c.StripeSecretKey != "" && c.StripeWebhookSecret != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
