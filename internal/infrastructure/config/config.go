package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/pickmeapp/pickme-api/internal/core/token"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	BaseURL   string        `env:"BASE_URL,   default=http://localhost:8080"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	SepayWebhookKey string `env:"SEPAY_WEBHOOK_KEY"`

	CORS     CORSConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mail     MailConfig
	OTP      OTPConfig
}

type CORSConfig struct {
	// AllowOrigins is a comma-separated allow list; the dev tunnel origin is
	// appended so the mobile client can reach a local instance.
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:3000"`
	TunnelOrigin string   `env:"CORS_TUNNEL_ORIGIN"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST,     default=localhost"`
	Port     int    `env:"POSTGRES_PORT,     default=5432"`
	User     string `env:"POSTGRES_USER,     default=pickme"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB,       default=pickme"`
	SSLMode  string `env:"POSTGRES_SSLMODE,  default=disable"`
}

// DSN renders the lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	// Sender address for SES; when empty, mail falls back to the log sender.
	From      string `env:"MAIL_FROM"`
	AWSRegion string `env:"AWS_REGION, default=ap-southeast-1"`
}

type OTPConfig struct {
	TTL             time.Duration `env:"OTP_TTL,              default=10m"`
	CleanupInterval time.Duration `env:"OTP_CLEANUP_INTERVAL, default=5m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate checks secrets at startup. Weak or missing secrets are logged
// loudly but do not stop the process, matching how deployments without a
// vault bootstrap themselves.
func (c *Config) Validate(log zerolog.Logger) {
	if c.JWTSecret == "" {
		log.Error().Msg("JWT_SECRET is not set; all bearer tokens will be rejected")
	} else if len(c.JWTSecret) < token.MinSecretLen {
		log.Error().
			Int("length", len(c.JWTSecret)).
			Int("minimum", token.MinSecretLen).
			Msg("JWT_SECRET is shorter than the required minimum for HS256")
	}
	if c.SepayWebhookKey == "" {
		log.Warn().Msg("SEPAY_WEBHOOK_KEY is not set; payment webhooks will be rejected")
	}
	if c.Mail.From == "" {
		log.Warn().Msg("MAIL_FROM is not set; password reset codes will be logged instead of emailed")
	}
}
