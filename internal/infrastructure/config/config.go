package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionSecret is the placeholder secret rejected by validation
const DefaultSessionSecret = "change-me-session-secret"

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// StoreConfig holds the data file configuration
type StoreConfig struct {
	Path      string `mapstructure:"path"`
	Delimiter string `mapstructure:"delimiter"`
}

// AuthConfig holds the admin credential and session settings
type AuthConfig struct {
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	SessionSecret     string        `mapstructure:"session_secret"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	CookieName        string        `mapstructure:"cookie_name"`
	CookieSecure      bool          `mapstructure:"cookie_secure"`
	Issuer            string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
	LoginRatePerMinute int           `mapstructure:"login_rate_per_minute"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from .env, the environment and defaults
func Load() (*Config, error) {
	return load(validateConfig)
}

// LoadStore loads configuration for commands that only touch the data file.
// The admin credential and session secret are not required.
func LoadStore() (*Config, error) {
	return load(validateStoreConfig)
}

func load(validate func(*Config) error) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Error Code Catalog")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")

	// Store defaults
	v.SetDefault("store.path", "error_codes.csv")
	v.SetDefault("store.delimiter", ";")

	// Auth defaults
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.session_secret", DefaultSessionSecret)
	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("auth.cookie_name", "catalog_session")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.issuer", "error-catalog")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 100)
	v.SetDefault("security.rate_limit_window", "1m")
	v.SetDefault("security.login_rate_per_minute", 10)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	v.BindEnv("server.request_timeout", "REQUEST_TIMEOUT")

	// Store
	v.BindEnv("store.path", "STORE_PATH")
	v.BindEnv("store.delimiter", "STORE_DELIMITER")

	// Auth
	v.BindEnv("auth.admin_password_hash", "ADMIN_PASSWORD_HASH")
	v.BindEnv("auth.session_secret", "SESSION_SECRET")
	v.BindEnv("auth.session_ttl", "SESSION_TTL")
	v.BindEnv("auth.cookie_name", "SESSION_COOKIE_NAME")
	v.BindEnv("auth.cookie_secure", "SESSION_COOKIE_SECURE")
	v.BindEnv("auth.issuer", "SESSION_ISSUER")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")
	v.BindEnv("security.login_rate_per_minute", "LOGIN_RATE_PER_MINUTE")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateStoreConfig(cfg *Config) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if utf8.RuneCountInString(cfg.Store.Delimiter) != 1 {
		return fmt.Errorf("store delimiter must be a single character")
	}

	switch r := cfg.Store.DelimiterRune(); r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("store delimiter %q cannot be used as a column separator", r)
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if err := validateStoreConfig(cfg); err != nil {
		return err
	}

	if cfg.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("admin password hash must be set (see the hash-password command)")
	}

	if _, err := bcrypt.Cost([]byte(cfg.Auth.AdminPasswordHash)); err != nil {
		return fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
	}

	if cfg.Auth.SessionSecret == "" || cfg.Auth.SessionSecret == DefaultSessionSecret {
		return fmt.Errorf("session secret must be set and should not use default value")
	}

	if len(cfg.Auth.SessionSecret) < 32 {
		return fmt.Errorf("session secret must be at least 32 bytes")
	}

	if cfg.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if cfg.App.IsProduction() && !cfg.Auth.CookieSecure {
		return fmt.Errorf("session cookie must be secure in production (SESSION_COOKIE_SECURE=true)")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	return nil
}

// DelimiterRune returns the configured column delimiter
func (cfg *StoreConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(cfg.Delimiter)
	return r
}

// GetAddr returns the listen address
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
