// Package config loads storefront settings from config.toml, an optional
// .env file and STORE_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Cart      CartConfig      `mapstructure:"cart"`
	Email     EmailConfig     `mapstructure:"email"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Printing  PrintingConfig  `mapstructure:"printing"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	OTELLogs  OTELLogsConfig  `mapstructure:"otel_logs"`
	Pyroscope PyroscopeConfig `mapstructure:"pyroscope"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
	// SQL adds statements to query logs with literals masked
	SQL       bool          `mapstructure:"sql"`
	SlowQuery time.Duration `mapstructure:"slow_query"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
	// PublicURL is where shoppers reach the shop; links in emails use it
	PublicURL string `mapstructure:"public_url"`
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	MigrationsPath  string `mapstructure:"migrations_path"`
	// AutoMigrate applies the embedded migrations at startup
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN renders a postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

type JWTConfig struct {
	Secret                string        `mapstructure:"secret"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
	Issuer                string        `mapstructure:"issuer"`
}

// SessionConfig is the guest cart cookie
type SessionConfig struct {
	Name        string        `mapstructure:"name"`
	Key         string        `mapstructure:"key"`
	MaxAge      time.Duration `mapstructure:"max_age"`
	Secure      bool          `mapstructure:"secure"`
	SameSite    string        `mapstructure:"same_site"`
	CSRFEnabled bool          `mapstructure:"csrf_enabled"`
	CSRFKey     string        `mapstructure:"csrf_key"` // 32 bytes
}

type CartConfig struct {
	// TTL is how long an untouched cart stays in Redis
	TTL time.Duration `mapstructure:"ttl"`
	// IdempotencyTTL is how long a checkout Idempotency-Key is remembered
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// EmailConfig is the Resend account used for order notifications
type EmailConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	From       string        `mapstructure:"from"`
	AdminEmail string        `mapstructure:"admin_email"`
	Timeout    time.Duration `mapstructure:"timeout"`
	StoreName  string        `mapstructure:"store_name"`
}

// StorageConfig is the S3-compatible bucket for product images
type StorageConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Endpoint          string        `mapstructure:"endpoint"`
	Region            string        `mapstructure:"region"`
	Bucket            string        `mapstructure:"bucket"`
	AccessKeyID       string        `mapstructure:"access_key_id"`
	SecretAccessKey   string        `mapstructure:"secret_access_key"`
	UsePathStyle      bool          `mapstructure:"use_path_style"`
	PublicURL         string        `mapstructure:"public_url"`
	PresignExpiration time.Duration `mapstructure:"presign_expiration"`
	MaxUploadSize     int64         `mapstructure:"max_upload_size"`
}

// PrintingConfig is the headless Chrome used for invoice PDFs
type PrintingConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RemoteURL string        `mapstructure:"remote_url"`
	NoSandbox bool          `mapstructure:"no_sandbox"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

type AdminConfig struct {
	// AllowedIPs limits /api/v1/admin to these IPs and CIDR ranges; empty allows all
	AllowedIPs []string `mapstructure:"allowed_ips"`
}

type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"`
}

type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`
	DBTraceEnabled    bool    `mapstructure:"db_trace_enabled"`
}

type MetricsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
}

// OTELLogsConfig controls exporting zap records over OTLP
type OTELLogsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

type PyroscopeConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	ServerAddress      string `mapstructure:"server_address"`
	BasicAuthUser      string `mapstructure:"basic_auth_user"`
	BasicAuthPassword  string `mapstructure:"basic_auth_password"`
	SpanProfileEnabled bool   `mapstructure:"span_profile_enabled"`
}

// defaults names every key. Viper only maps STORE_* variables onto keys it
// already knows, so keys without a real default are listed with a zero value.
var defaults = map[string]any{
	"app.name":       "storefront",
	"app.env":        "development",
	"app.port":       "8080",
	"app.public_url": "",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "storefront",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.migrations_path":    "migrations",
	"database.auto_migrate":       false,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                  "",
	"jwt.access_token_expiration": 24 * time.Hour,
	"jwt.issuer":                  "storefront",

	"session.name":         "storefront_session",
	"session.key":          "",
	"session.max_age":      30 * 24 * time.Hour,
	"session.secure":       false,
	"session.same_site":    "lax",
	"session.csrf_enabled": false,
	"session.csrf_key":     "",

	"cart.ttl":             30 * 24 * time.Hour,
	"cart.idempotency_ttl": 24 * time.Hour,

	"email.enabled":     false,
	"email.api_key":     "",
	"email.base_url":    "https://api.resend.com",
	"email.from":        "",
	"email.admin_email": "",
	"email.timeout":     10 * time.Second,
	"email.store_name":  "StyleCo",

	"storage.enabled":            false,
	"storage.endpoint":           "",
	"storage.region":             "us-east-1",
	"storage.bucket":             "",
	"storage.access_key_id":      "",
	"storage.secret_access_key":  "",
	"storage.use_path_style":     false,
	"storage.public_url":         "",
	"storage.presign_expiration": 15 * time.Minute,
	"storage.max_upload_size":    5 << 20,

	"printing.enabled":    false,
	"printing.remote_url": "",
	"printing.no_sandbox": false,
	"printing.timeout":    30 * time.Second,

	"log.level":      "info",
	"log.format":     "console",
	"log.output":     "stdout",
	"log.sql":        false,
	"log.slow_query": 200 * time.Millisecond,

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            30 * time.Second,
	"http.idle_timeout":             time.Minute,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            10 << 20,
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	// origins have no wildcard fallback and must be configured
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-CSRF-Token", "Idempotency-Key"},
	"http.trusted_proxies":    []string{},

	"admin.allowed_ips": []string{},

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "",
	"telemetry.insecure":           false,
	"telemetry.db_trace_enabled":   false,

	"metrics.enabled":         false,
	"metrics.export_interval": time.Minute,

	"otel_logs.enabled": false,
	"otel_logs.level":   "info",

	"pyroscope.enabled":              false,
	"pyroscope.server_address":       "http://localhost:4040",
	"pyroscope.basic_auth_user":      "",
	"pyroscope.basic_auth_password":  "",
	"pyroscope.span_profile_enabled": false,
}

// Load reads config.toml from ., ./config or /app if present, then .env,
// then STORE_* variables such as STORE_DATABASE_PASSWORD.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.derive()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// derive fills settings whose default depends on another setting
func (c *Config) derive() {
	if c.App.PublicURL == "" {
		c.App.PublicURL = "http://localhost:" + c.App.Port
	}
	if c.Email.From == "" {
		c.Email.From = c.Email.StoreName + " <onboarding@resend.dev>"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.App.Name
	}
}

func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	s := c.Session
	check(slices.Contains([]string{"strict", "lax", "none"}, s.SameSite),
		"session.same_site must be one of strict, lax, none; got %q", s.SameSite)
	check(s.SameSite != "none" || s.Secure, "session.same_site=none requires session.secure=true")
	check(!s.CSRFEnabled || len(s.CSRFKey) == 32, "session.csrf_key must be exactly 32 bytes when csrf is enabled")

	if c.Email.Enabled {
		check(c.Email.APIKey != "", "email.api_key is required when email is enabled")
		check(c.Email.AdminEmail != "", "email.admin_email is required when email is enabled")
	}
	check(!c.Storage.Enabled || c.Storage.Bucket != "", "storage.bucket is required when storage is enabled")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)

	if c.App.IsProduction() {
		check(c.JWT.Secret != "", "jwt.secret is required in production")
		check(c.JWT.Secret == "" || len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		check(len(s.Key) >= 32, "session.key must be at least 32 characters in production")
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		check(s.Secure, "session.secure must be true in production")
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot be '*' in production")
		sw := c.Swagger
		check(!sw.Enabled || sw.RequireAuth || len(sw.AllowedIPs) > 0,
			"swagger endpoint must be disabled, require authentication, or have IP restriction in production")
	}
	return errors.Join(errs...)
}
