package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Driver identifies which database/sql driver backs the gorm handle.
type Driver string

const (
	DriverPgx    Driver = "pgx"
	DriverPQ     Driver = "pq"
	DriverSQLite Driver = "sqlite"
)

// InvoicePolicy decides what happens to invoices when the seed runs again.
type InvoicePolicy string

const (
	// InvoiceAppend always inserts the invoice fixtures, so repeated runs
	// grow the table.
	InvoiceAppend InvoicePolicy = "append"
	// InvoiceSkipIfPresent leaves the invoices table alone once it has rows.
	InvoiceSkipIfPresent InvoicePolicy = "skip-if-present"
)

const (
	DefaultPort        = "5050"
	DefaultBcryptCost  = 10
	DefaultConcurrency = 8
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrUnknownDriver      = errors.New("DB_DRIVER must be one of pgx, pq, sqlite")
	ErrUnknownPolicy      = errors.New("INVOICE_POLICY must be append or skip-if-present")
	ErrBcryptCost         = errors.New("BCRYPT_COST must be between 4 and 31")
	ErrConcurrency        = errors.New("SEED_CONCURRENCY must be positive")
	ErrRateLimit          = errors.New("SEED_RATE_LIMIT must not be negative")
)

// Config holds everything the server and the seed command read from the
// environment.
type Config struct {
	DatabaseURL string
	Driver      Driver
	// DBSchema, when set, is created on connect and used as search_path.
	DBSchema string
	Port     string

	BcryptCost    int
	InvoicePolicy InvoicePolicy
	Concurrency   int
	FixturesPath  string

	// RateLimit is requests per second allowed on the seed route. Zero
	// disables limiting.
	RateLimit      float64
	AllowedOrigins []string
	LogLevel       string
}

// Load reads an optional env file and then the process environment.
func Load(envFile string) Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return LoadFromEnv()
}

// LoadFromEnv builds a Config from environment variables.
//
// Environment variables:
//   - DATABASE_URL: connection string (required)
//   - DB_DRIVER: "pgx", "pq" or "sqlite" (default: "pgx")
//   - DB_SCHEMA: postgres schema for the seeded tables (default: search_path)
//   - PORT: listen port (default: 5050)
//   - BCRYPT_COST: bcrypt work factor (default: 10)
//   - INVOICE_POLICY: "append" or "skip-if-present" (default: "append")
//   - SEED_CONCURRENCY: parallel inserts per table (default: 8)
//   - SEED_FIXTURES: YAML file replacing the embedded placeholder data
//   - SEED_RATE_LIMIT: requests/second on /seed, 0 disables (default: 0)
//   - CORS_ALLOWED_ORIGINS: comma separated origin allow-list
//   - LOG_LEVEL: zap level name (default: "info")
func LoadFromEnv() Config {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Driver:         Driver(strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))),
		DBSchema:       strings.TrimSpace(os.Getenv("DB_SCHEMA")),
		Port:           strings.TrimSpace(os.Getenv("PORT")),
		BcryptCost:     envInt("BCRYPT_COST", DefaultBcryptCost),
		InvoicePolicy:  InvoicePolicy(strings.ToLower(strings.TrimSpace(os.Getenv("INVOICE_POLICY")))),
		Concurrency:    envInt("SEED_CONCURRENCY", DefaultConcurrency),
		FixturesPath:   strings.TrimSpace(os.Getenv("SEED_FIXTURES")),
		RateLimit:      envFloat("SEED_RATE_LIMIT", 0),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogLevel:       strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}

	if cfg.Driver == "" {
		cfg.Driver = DriverPgx
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.InvoicePolicy == "" {
		cfg.InvoicePolicy = InvoiceAppend
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// Validate checks that the configuration can be used to open a database and
// run the seeder.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	switch c.Driver {
	case DriverPgx, DriverPQ, DriverSQLite:
	default:
		return ErrUnknownDriver
	}
	if err := c.InvoicePolicy.Validate(); err != nil {
		return err
	}
	// bcrypt.MinCost and bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return ErrBcryptCost
	}
	if c.Concurrency < 1 {
		return ErrConcurrency
	}
	if c.RateLimit < 0 {
		return ErrRateLimit
	}
	return nil
}

// Validate reports whether p is a known policy.
func (p InvoicePolicy) Validate() error {
	switch p {
	case InvoiceAppend, InvoiceSkipIfPresent:
		return nil
	}
	return ErrUnknownPolicy
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Leave an invalid value for Validate to reject.
		return -1
	}
	return n
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return -1
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
