package config

import (
	"errors"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database Database `envPrefix:"DB_"`
	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Invoice  Invoice  `envPrefix:"INVOICE_"`
}

type Razorpay struct {
	BaseApiURL    string        `env:"BASE_API_URL" envDefault:"https://api.razorpay.com"`
	KeyID         string        `env:"KEY_ID"`
	KeySecret     string        `env:"KEY_SECRET"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Currency      string        `env:"CURRENCY" envDefault:"INR"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"` // mysql, sqlite
	DSN             string        `env:"DSN" envDefault:"payments.db"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"warn"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER"`
}

// Redis backs the per-order verification lock. Leave Addr empty to use the
// in-process lock.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	LockWait time.Duration `env:"LOCK_WAIT" envDefault:"10s"`
}

type Invoice struct {
	CompanyName    string `env:"COMPANY_NAME" envDefault:"Your Company Name"`
	CompanyAddress string `env:"COMPANY_ADDRESS" envDefault:"123 Business Street, City - 560066"`
	CompanyPhone   string `env:"COMPANY_PHONE" envDefault:"+91 9876543210"`
	CompanyGSTIN   string `env:"COMPANY_GSTIN" envDefault:"27AAAAA0000A1Z5"`

	ChromeRemoteURL string        `env:"CHROME_REMOTE_URL"`
	ChromeNoSandbox bool          `env:"CHROME_NO_SANDBOX" envDefault:"true"`
	RenderTimeout   time.Duration `env:"RENDER_TIMEOUT" envDefault:"30s"`

	S3 S3Archive `envPrefix:"S3_"`
}

// S3Archive is optional: an empty Bucket disables invoice archiving.
type S3Archive struct {
	Bucket       string `env:"BUCKET"`
	Region       string `env:"REGION" envDefault:"ap-south-1"`
	Endpoint     string `env:"ENDPOINT"`
	AccessKey    string `env:"ACCESS_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	UsePathStyle bool   `env:"USE_PATH_STYLE" envDefault:"false"`
	Prefix       string `env:"PREFIX" envDefault:"invoices/"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	BasePath        string        `env:"HTTP_BASE_PATH" envDefault:"/payment"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

var (
	ErrMissingKeyID     = errors.New("config: RAZORPAY_KEY_ID is required")
	ErrMissingKeySecret = errors.New("config: RAZORPAY_KEY_SECRET is required")
	ErrMissingJWTSecret = errors.New("config: AUTH_JWT_SECRET is required")
	ErrUnknownDBDriver  = errors.New("config: DB_DRIVER must be mysql or sqlite")
)

func (c *Config) Validate() error {
	if c.Razorpay.KeyID == "" {
		return ErrMissingKeyID
	}
	if c.Razorpay.KeySecret == "" {
		return ErrMissingKeySecret
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return ErrUnknownDBDriver
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment.Name == "production"
}
