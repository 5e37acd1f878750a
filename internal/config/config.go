package config

import (
	"errors" // Validation errors
	"fmt"    // Error wrapping
	"time"   // Durations

	"github.com/caarlos0/env/v11" // Struct decoding of environment variables
	"github.com/joho/godotenv"    // For loading .env files
)

const devSecret = "devsecret"

// Config holds the application configuration
type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"8080"`                              // Application port
	IsProd          bool          `env:"IS_PROD" envDefault:"false"`                              // Is production environment
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`                             // logrus level name
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"devsecret"`                       // JWT secret key
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" envDefault:"127.0.0.1" envSeparator:","` // Proxies allowed to set client IP headers
	PlatformAdminID uint          `env:"PLATFORM_ADMIN_ID"`                                       // Account credited with commission; 0 means "the only admin"
	LockWait        time.Duration `env:"LOCK_WAIT" envDefault:"5s"`                               // How long a bid waits for the product lock
	LockTTL         time.Duration `env:"LOCK_TTL" envDefault:"30s"`                               // Expiry of a Redis product lock
	LoginRate       float64       `env:"LOGIN_RATE" envDefault:"1"`                               // Login attempts per second per client IP
	LoginBurst      int           `env:"LOGIN_BURST" envDefault:"5"`                              // Login burst per client IP
	DB              DB            `envPrefix:"DB_"`                                               // Database settings
	Redis           Redis         `envPrefix:"REDIS_"`                                            // Redis settings
	SMTP            SMTP          `envPrefix:"SMTP_"`                                             // Mail relay settings
	Uploads         Uploads       `envPrefix:"UPLOAD_"`                                           // Image storage settings
	MinIO           MinIO         `envPrefix:"MINIO_"`                                            // Object storage settings
	Admin           Admin         `envPrefix:"ADMIN_"`                                            // Bootstrap admin account
}

// DB contains MySQL connection parameters
type DB struct {
	User     string `env:"USER" envDefault:"root"`      // Database user
	Password string `env:"PASSWORD"`                    // Database password
	Host     string `env:"HOST" envDefault:"localhost"` // Database host
	Port     string `env:"PORT" envDefault:"3306"`      // Database port
	Name     string `env:"NAME" envDefault:"auction"`   // Database name
}

// DSN builds the Data Source Name for the MySQL driver
func (d DB) DSN() string {
	return d.User + ":" + d.Password + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

// Redis contains cache and lock server parameters. An empty Addr disables Redis.
type Redis struct {
	Addr string `env:"ADDR"` // Redis server address
	Pass string `env:"PASS"` // Redis password
	DB   int    `env:"DB"`   // Redis database number
}

// SMTP contains mail relay parameters. An empty Host disables email.
type SMTP struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT" envDefault:"587"`
	User      string `env:"USER"`
	Password  string `env:"PASSWORD"`
	FromName  string `env:"FROM_NAME" envDefault:"Auction House"`
	FromEmail string `env:"FROM_EMAIL" envDefault:"noreply@auction.local"`
}

// Uploads contains local image storage parameters
type Uploads struct {
	Dir     string `env:"DIR" envDefault:"uploads"`      // Directory for images when MinIO is disabled
	MaxSize int64  `env:"MAX_SIZE" envDefault:"5242880"` // Maximum image size in bytes
}

// MinIO contains object storage parameters. An empty Endpoint keeps images on disk.
type MinIO struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"auction-uploads"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Admin is the account cmd/migrate creates when none exists
type Admin struct {
	Name     string `env:"NAME" envDefault:"Platform Admin"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProd && c.JWTSecret == devSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}
	if c.LockWait <= 0 || c.LockTTL <= 0 {
		return errors.New("LOCK_WAIT and LOCK_TTL must be positive") // A zero TTL lock never expires
	}
	if c.Uploads.MaxSize <= 0 {
		return errors.New("UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}
