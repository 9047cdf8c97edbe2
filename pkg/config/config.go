package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Yelp      YelpConfig
	Vapi      VapiConfig
	Dispatch  DispatchConfig
	Images    ImagesConfig
	Auth      AuthConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// YelpConfig holds business directory configuration
type YelpConfig struct {
	APIKey  string
	BaseURL string
}

// VapiConfig holds voice vendor configuration
type VapiConfig struct {
	Provider      string
	APIKey        string
	PhoneNumberID string
	AssistantID   string
	BaseURL       string
	EnableCalls   bool

	// Call completion polling
	InitialDelay time.Duration
	PollInterval time.Duration
	MaxAttempts  int
	MaxRetries   int
}

// DispatchConfig tunes the background verification loop
type DispatchConfig struct {
	TickInterval      time.Duration
	BatchSize         int
	BusinessHourStart int
	Timezone          string
}

// ImagesConfig holds image search configuration
type ImagesConfig struct {
	Provider       string
	APIKey         string
	SearchEngineID string
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	ClerkJWTSecret string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "restaurant_hours"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Yelp: YelpConfig{
			APIKey:  getEnv("YELP_API_KEY", ""),
			BaseURL: getEnv("YELP_BASE_URL", "https://api.yelp.com/v3"),
		},
		Vapi: VapiConfig{
			Provider:      getEnv("VAPI_PROVIDER", "vapi"),
			APIKey:        getEnv("VAPI_API_KEY", ""),
			PhoneNumberID: getEnv("VAPI_PHONE_NUMBER_ID", ""),
			AssistantID:   getEnv("VAPI_ASSISTANT_ID", ""),
			BaseURL:       getEnv("VAPI_BASE_URL", "https://api.vapi.ai"),
			EnableCalls:   getEnvAsBool("ENABLE_CALLS", false),
			InitialDelay:  getEnvAsDuration("VAPI_INITIAL_DELAY", 15*time.Second),
			PollInterval:  getEnvAsDuration("VAPI_POLL_INTERVAL", 5*time.Second),
			MaxAttempts:   getEnvAsInt("VAPI_MAX_ATTEMPTS", 60),
			MaxRetries:    getEnvAsInt("VAPI_MAX_RETRIES", 3),
		},
		Dispatch: DispatchConfig{
			TickInterval:      getEnvAsDuration("DISPATCH_TICK_INTERVAL", 60*time.Second),
			BatchSize:         getEnvAsInt("DISPATCH_BATCH_SIZE", 5),
			BusinessHourStart: getEnvAsInt("DISPATCH_BUSINESS_HOUR_START", 8),
			Timezone:          getEnv("DISPATCH_TIMEZONE", "Local"),
		},
		Images: ImagesConfig{
			Provider:       getEnv("IMAGE_PROVIDER", "mock"),
			APIKey:         getEnv("GOOGLE_API_KEY", ""),
			SearchEngineID: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
		},
		Auth: AuthConfig{
			ClerkJWTSecret: getEnv("CLERK_JWT_SECRET", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "restaurant-hours-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resolves the dispatch timezone; "Local" or an unparseable name
// falls back to the process-local zone.
func (c *DispatchConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
