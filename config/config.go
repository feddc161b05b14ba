package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Port    string
	GinMode string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	AutoMigrate   bool

	JWTSecret     string
	JWTExpiration time.Duration

	BcryptCost   int
	HashWorkers  int
	UserCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// LoadEnvVars reads a .env file into the process environment if one exists.
func LoadEnvVars() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads the environment (after LoadEnvVars) and validates the result.
func Load() (*Config, error) {
	if err := LoadEnvVars(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "todo_auth"),
		DatabaseURL:   getEnv("DATABASE_URL", postgresDSN()),
		AutoMigrate:   getEnvAsBool("AUTO_MIGRATE", true),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getEnvAsDuration("JWT_EXPIRATION", 6*time.Hour),

		BcryptCost:   getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),
		HashWorkers:  getEnvAsInt("HASH_WORKERS", runtime.NumCPU()),
		UserCacheTTL: getEnvAsDuration("USER_CACHE_TTL", 5*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable not set")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required when DB_DRIVER=mongo")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL or DB_HOST is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.HashWorkers < 1 {
		return errors.New("HASH_WORKERS must be at least 1")
	}
	return nil
}

// Addr is the listen address derived from PORT.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// postgresDSN builds a DSN from the individual DB_* variables, or returns ""
// when DB_HOST is not set.
func postgresDSN() string {
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
