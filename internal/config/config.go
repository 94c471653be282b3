package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development-only signing key.
const DefaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Identity     IdentityConfig
	Upload       UploadConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Events       EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level          string
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
	FileMaxAgeDays int
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// IdentityConfig holds the email domain admission rules.
type IdentityConfig struct {
	AdminDomains      []string
	UserDomains       []string
	MinPasswordLength int
}

// UploadConfig controls image uploads.
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxBytes  int
}

// NotificationConfig holds inbox limits and the optional claim webhook.
type NotificationConfig struct {
	MaxPerAccount         int
	WebhookURL            string
	WebhookTimeoutSeconds int
}

// WebhookTimeout bounds one webhook delivery.
func (n NotificationConfig) WebhookTimeout() time.Duration {
	if n.WebhookTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.WebhookTimeoutSeconds) * time.Second
}

// RateLimitConfig throttles unauthenticated auth endpoints.
type RateLimitConfig struct {
	AuthRequests      int
	AuthWindowSeconds int
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// EventsConfig configures optional NATS forwarding of lifecycle events.
type EventsConfig struct {
	NATSURL       string
	SubjectPrefix string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "foundit-lostfound"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", getEnv("APP_PORT", "5000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			File:           os.Getenv("LOG_FILE"),
			FileMaxSizeMB:  getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100),
			FileMaxBackups: getEnvAsInt("LOG_FILE_MAX_BACKUPS", 5),
			FileMaxAgeDays: getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 14),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", DefaultJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Identity: IdentityConfig{
			AdminDomains:      getEnvAsList("IDENTITY_ADMIN_DOMAINS", "@admin.riphah.edu.pk"),
			UserDomains:       getEnvAsList("IDENTITY_USER_DOMAINS", "@students.riphah.edu.pk,@faculty.riphah.edu.pk"),
			MinPasswordLength: getEnvAsInt("IDENTITY_MIN_PASSWORD_LENGTH", 6),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			URLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxBytes:  getEnvAsInt("UPLOAD_MAX_BYTES", 5*1024*1024),
		},
		Notification: NotificationConfig{
			MaxPerAccount:         getEnvAsInt("NOTIFICATIONS_MAX_PER_ACCOUNT", 100),
			WebhookURL:            os.Getenv("NOTIFY_WEBHOOK_URL"),
			WebhookTimeoutSeconds: getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5),
		},
		RateLimit: RateLimitConfig{
			AuthRequests:      getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS", 20),
			AuthWindowSeconds: getEnvAsInt("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Events: EventsConfig{
			NATSURL:       os.Getenv("NATS_URL"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "foundit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate refuses placeholder secrets and a missing store outside development.
func (c *Config) Validate() error {
	if c.App.IsDevelopment() {
		return nil
	}
	var errs []error
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set outside development"))
	}
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN must be set outside development"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether insecure defaults are acceptable.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Window returns the auth rate limit window.
func (r RateLimitConfig) Window() time.Duration {
	if r.AuthWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.AuthWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
