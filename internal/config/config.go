package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stowage/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Transfer TransferConfig
	SMS      SMSConfig
	Email    EmailConfig
	Audit    AuditConfig
	DB       DBConfig
	JWT      JWTConfig
	Log      LogConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig holds object storage settings shared by the S3 and MinIO backends.
type StorageConfig struct {
	Provider      string        `mapstructure:"provider"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	DefaultBucket string        `mapstructure:"default_bucket"`
	DefaultACL    string        `mapstructure:"default_acl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// TransferConfig holds settings for directory pushes and remote fetches.
type TransferConfig struct {
	StagingDir     string        `mapstructure:"staging_dir"`
	Concurrency    int           `mapstructure:"concurrency"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	MaxFetchSizeMB int64         `mapstructure:"max_fetch_size_mb"`
}

// MaxFetchBytes returns the remote fetch cap in bytes.
func (t *TransferConfig) MaxFetchBytes() int64 {
	return t.MaxFetchSizeMB * 1024 * 1024
}

// SMSConfig holds SMS delivery settings.
type SMSConfig struct {
	Provider string `mapstructure:"provider"`
	Region   string `mapstructure:"region"`
	SenderID string `mapstructure:"sender_id"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// AuditConfig selects where audit entries are persisted.
type AuditConfig struct {
	Provider string `mapstructure:"provider"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from an optional .env file and environment
// variables with the STOWAGE_ prefix.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("STOWAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.default_bucket", "")
	v.SetDefault("storage.default_acl", "public-read")
	v.SetDefault("storage.presign_expiry", "3m")

	// Transfer defaults
	v.SetDefault("transfer.staging_dir", os.TempDir())
	v.SetDefault("transfer.concurrency", 5)
	v.SetDefault("transfer.fetch_timeout", "30s")
	v.SetDefault("transfer.max_fetch_size_mb", 100)

	// SMS defaults
	v.SetDefault("sms.provider", "noop")
	v.SetDefault("sms.region", "us-east-1")
	v.SetDefault("sms.sender_id", "Bgd")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@stowage.local")
	v.SetDefault("email.from_name", "Stowage")

	// Audit defaults
	v.SetDefault("audit.provider", "noop")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "stowage")
	v.SetDefault("db.password", "stowage_secret")
	v.SetDefault("db.name", "stowage_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.token_expiry", "24h")
	v.SetDefault("jwt.issuer", "stowage")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "STOWAGE_SERVER_PORT",
		"server.read_timeout":        "STOWAGE_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "STOWAGE_SERVER_WRITE_TIMEOUT",
		"server.environment":         "STOWAGE_SERVER_ENVIRONMENT",
		"storage.provider":           "STOWAGE_STORAGE_PROVIDER",
		"storage.region":             "STOWAGE_STORAGE_REGION",
		"storage.endpoint":           "STOWAGE_STORAGE_ENDPOINT",
		"storage.access_key":         "STOWAGE_STORAGE_ACCESS_KEY",
		"storage.secret_key":         "STOWAGE_STORAGE_SECRET_KEY",
		"storage.use_ssl":            "STOWAGE_STORAGE_USE_SSL",
		"storage.default_bucket":     "STOWAGE_STORAGE_DEFAULT_BUCKET",
		"storage.default_acl":        "STOWAGE_STORAGE_DEFAULT_ACL",
		"storage.presign_expiry":     "STOWAGE_STORAGE_PRESIGN_EXPIRY",
		"transfer.staging_dir":       "STOWAGE_TRANSFER_STAGING_DIR",
		"transfer.concurrency":       "STOWAGE_TRANSFER_CONCURRENCY",
		"transfer.fetch_timeout":     "STOWAGE_TRANSFER_FETCH_TIMEOUT",
		"transfer.max_fetch_size_mb": "STOWAGE_TRANSFER_MAX_FETCH_SIZE_MB",
		"sms.provider":               "STOWAGE_SMS_PROVIDER",
		"sms.region":                 "STOWAGE_SMS_REGION",
		"sms.sender_id":              "STOWAGE_SMS_SENDER_ID",
		"email.provider":             "STOWAGE_EMAIL_PROVIDER",
		"email.region":               "STOWAGE_EMAIL_REGION",
		"email.from_address":         "STOWAGE_EMAIL_FROM_ADDRESS",
		"email.from_name":            "STOWAGE_EMAIL_FROM_NAME",
		"audit.provider":             "STOWAGE_AUDIT_PROVIDER",
		"db.host":                    "STOWAGE_DB_HOST",
		"db.port":                    "STOWAGE_DB_PORT",
		"db.user":                    "STOWAGE_DB_USER",
		"db.password":                "STOWAGE_DB_PASSWORD",
		"db.name":                    "STOWAGE_DB_NAME",
		"db.sslmode":                 "STOWAGE_DB_SSLMODE",
		"db.max_open":                "STOWAGE_DB_MAX_OPEN",
		"db.max_idle":                "STOWAGE_DB_MAX_IDLE",
		"jwt.secret":                 "STOWAGE_JWT_SECRET",
		"jwt.token_expiry":           "STOWAGE_JWT_TOKEN_EXPIRY",
		"jwt.issuer":                 "STOWAGE_JWT_ISSUER",
		"log.level":                  "STOWAGE_LOG_LEVEL",
		"log.format":                 "STOWAGE_LOG_FORMAT",
		"cors.allowed_origins":       "STOWAGE_CORS_ALLOWED_ORIGINS",
		"metrics.enabled":            "STOWAGE_METRICS_ENABLED",
		"metrics.path":               "STOWAGE_METRICS_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if STOWAGE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STOWAGE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		Region:        v.GetString("storage.region"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		UseSSL:        v.GetBool("storage.use_ssl"),
		DefaultBucket: v.GetString("storage.default_bucket"),
		DefaultACL:    v.GetString("storage.default_acl"),
		PresignExpiry: v.GetDuration("storage.presign_expiry"),
	}
	cfg.Transfer = TransferConfig{
		StagingDir:     v.GetString("transfer.staging_dir"),
		Concurrency:    v.GetInt("transfer.concurrency"),
		FetchTimeout:   v.GetDuration("transfer.fetch_timeout"),
		MaxFetchSizeMB: v.GetInt64("transfer.max_fetch_size_mb"),
	}
	cfg.SMS = SMSConfig{
		Provider: strings.ToLower(v.GetString("sms.provider")),
		Region:   v.GetString("sms.region"),
		SenderID: v.GetString("sms.sender_id"),
	}
	cfg.Email = EmailConfig{
		Provider:    strings.ToLower(v.GetString("email.provider")),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Audit = AuditConfig{
		Provider: strings.ToLower(v.GetString("audit.provider")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:      v.GetString("jwt.secret"),
		TokenExpiry: v.GetDuration("jwt.token_expiry"),
		Issuer:      v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Provider {
	case "s3", "minio":
	default:
		return fmt.Errorf("config: unsupported storage provider %q", c.Storage.Provider)
	}
	if c.Storage.Provider == "minio" && c.Storage.Endpoint == "" {
		return fmt.Errorf("config: storage endpoint is required for the minio provider")
	}
	if c.Transfer.Concurrency <= 0 {
		return fmt.Errorf("config: transfer concurrency must be positive, got %d", c.Transfer.Concurrency)
	}
	if c.Storage.PresignExpiry <= 0 {
		return fmt.Errorf("config: storage presign expiry must be positive")
	}
	if !domain.AllowedACLs[domain.CannedACL(c.Storage.DefaultACL)] {
		return fmt.Errorf("config: unsupported storage default acl %q", c.Storage.DefaultACL)
	}
	if c.Transfer.MaxFetchSizeMB <= 0 {
		return fmt.Errorf("config: transfer max fetch size must be positive, got %d", c.Transfer.MaxFetchSizeMB)
	}
	return nil
}
