package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings. Everything except DB_URL and JWT_SECRET has a default.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	DBURL      string `env:"DB_URL,required,notEmpty"`
	JWTSecret  string `env:"JWT_SECRET,required,notEmpty"`
	RedisURL   string `env:"REDIS_URL"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	AppURL     string `env:"APP_URL" envDefault:"http://localhost:3000"`

	// Requests presenting this key in the "apikey" header act as admin (seed scripts).
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY"`

	UploadDir         string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL     string `env:"UPLOAD_BASE_URL" envDefault:"/files"`
	UploadEndpoint    string `env:"UPLOAD_ENDPOINT"`
	UploadEndpointKey string `env:"UPLOAD_ENDPOINT_KEY"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StoreCurrency       string `env:"STORE_CURRENCY" envDefault:"krw"`

	GoogleClientID         string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret     string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL      string `env:"GOOGLE_REDIRECT_URL"`
	GoogleFrontendRedirect string `env:"GOOGLE_FRONTEND_REDIRECT"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`

	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	CatalogWarmSpec string        `env:"CATALOG_WARM_SPEC" envDefault:"0 */5 * * * *"`
	SearchDebounce  time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
}

// SeedConfig is what the seed command needs: the public API base URL and a service-role key.
type SeedConfig struct {
	PublicURL  string `env:"FINEART_PUBLIC_URL,required,notEmpty"`
	ServiceKey string `env:"FINEART_SERVICE_KEY,required,notEmpty"`
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// GoogleEnabled reports whether Google sign-in has been configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// LoadEnv reads .env (if present) and parses the server configuration.
func LoadEnv() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadSeed reads .env (if present) and parses the seed configuration.
func LoadSeed() (*SeedConfig, error) {
	loadDotEnv()

	cfg := &SeedConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
}
