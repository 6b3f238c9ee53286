// Package config provides configuration management for the jobtrack service.
// Values come from environment variables (optionally seeded from a .env file by main),
// with required variables, defaults, and collective error reporting: every problem found
// is reported in a single error instead of failing on the first one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers, selected by the DATABASE_URL scheme.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported token signing algorithms.
var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

const minSecretKeyLength = 32

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver      string // DriverPostgres or DriverSQLite
	DSN         string // connection string (postgres) or file path (sqlite)
	MaxConns    int    // pool size
	AutoMigrate bool   // run migrations when the server starts
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	SecretKey           string        // Secret key for signing tokens
	Algorithm           string        // HS256, HS384 or HS512
	AccessTokenDuration time.Duration // Default lifetime of issued tokens
	Issuer              string        // iss claim written into and required on tokens
	BcryptCost          int           // bcrypt work factor for password hashes
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	APIPrefix          string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Env   string // "dev" or "prod"
	Level string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Server   *ServerConfig
	Log      *LogConfig
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// loader reads variables through lookup and collects problems in errors.
type loader struct {
	lookup LookupFunc
	errors []string
}

// getRequiredEnv returns a required variable, recording an error if it is not set.
func (l *loader) getRequiredEnv(key string) string {
	value, exists := l.lookup(key)
	if !exists || strings.TrimSpace(value) == "" {
		l.errors = append(l.errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv returns a variable or defaultValue when it is not set.
func (l *loader) getOptionalEnv(key string, defaultValue string) string {
	if value, exists := l.lookup(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt parses an optional integer variable.
func (l *loader) getOptionalEnvInt(key string, defaultValue int) int {
	valueStr, exists := l.lookup(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		l.errors = append(l.errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvBool parses an optional boolean variable (strconv.ParseBool syntax).
func (l *loader) getOptionalEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := l.lookup(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		l.errors = append(l.errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// getOptionalEnvDuration parses an optional duration variable ("15s", "1m30s").
func (l *loader) getOptionalEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := l.lookup(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(strings.TrimSpace(valueStr))
	if err != nil {
		l.errors = append(l.errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clamp keeps an integer setting within [min, max], recording an error when it had to move it.
func (l *loader) clamp(key string, value, min, max int) int {
	if value < min {
		l.errors = append(l.errors, fmt.Sprintf("%s (%d) is less than minimum %d", key, value, min))
		return min
	}
	if value > max {
		l.errors = append(l.errors, fmt.Sprintf("%s (%d) is greater than maximum %d", key, value, max))
		return max
	}
	return value
}

// ParseDatabaseURL splits DATABASE_URL into a driver and a driver-specific DSN.
// postgres:// and postgresql:// URLs are passed through unchanged. sqlite:// URLs
// yield a file path; the SQLAlchemy form sqlite:///relative.db is accepted too.
func ParseDatabaseURL(raw string) (driver string, dsn string, err error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", raw)
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme in %q (want postgres:// or sqlite://)", raw)
	}
}

// LoadConfig creates an AppConfig from the process environment.
func LoadConfig() (*AppConfig, error) {
	return LoadConfigFrom(os.LookupEnv)
}

// LoadConfigFrom creates and validates an AppConfig reading variables through lookup.
// All problems are returned together in one error.
func LoadConfigFrom(lookup LookupFunc) (*AppConfig, error) {
	l := &loader{lookup: lookup}

	// Database Configuration
	dbURL := l.getOptionalEnv("DATABASE_URL", "sqlite://./jobtrack.db")
	driver, dsn, err := ParseDatabaseURL(dbURL)
	if err != nil {
		l.errors = append(l.errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
	}
	dbConfig := &DatabaseConfig{
		Driver:      driver,
		DSN:         dsn,
		MaxConns:    l.clamp("DB_MAX_CONNS", l.getOptionalEnvInt("DB_MAX_CONNS", 10), 1, 100),
		AutoMigrate: l.getOptionalEnvBool("AUTO_MIGRATE", true),
	}

	// Auth Configuration
	secretKey := l.getRequiredEnv("SECRET_KEY")
	if secretKey != "" && len(secretKey) < minSecretKeyLength {
		l.errors = append(l.errors, fmt.Sprintf("SECRET_KEY must be at least %d bytes", minSecretKeyLength))
	}
	algorithm := strings.ToUpper(l.getOptionalEnv("ALGORITHM", "HS256"))
	if !supportedAlgorithms[algorithm] {
		l.errors = append(l.errors, fmt.Sprintf("unsupported ALGORITHM %q (want HS256, HS384 or HS512)", algorithm))
	}
	expireMinutes := l.getOptionalEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if expireMinutes <= 0 {
		l.errors = append(l.errors, fmt.Sprintf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", expireMinutes))
		expireMinutes = 30
	}
	authConfig := &AuthConfig{
		SecretKey:           secretKey,
		Algorithm:           algorithm,
		AccessTokenDuration: time.Duration(expireMinutes) * time.Minute,
		Issuer:              l.getOptionalEnv("TOKEN_ISSUER", "jobtrack"),
		BcryptCost:          l.clamp("BCRYPT_COST", l.getOptionalEnvInt("BCRYPT_COST", 12), bcrypt.DefaultCost, bcrypt.MaxCost),
	}

	// Server Configuration
	prefix := "/" + strings.Trim(l.getOptionalEnv("API_PREFIX", "/api/v1"), "/")
	serverConfig := &ServerConfig{
		Port:               l.getOptionalEnv("PORT", "8080"),
		APIPrefix:          prefix,
		CORSAllowedOrigins: splitList(l.getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        l.getOptionalEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       l.getOptionalEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        l.getOptionalEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    l.getOptionalEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	logConfig := &LogConfig{
		Env:   l.getOptionalEnv("APP_ENV", "dev"),
		Level: l.getOptionalEnv("LOG_LEVEL", "info"),
	}

	if len(l.errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(l.errors, "\n- "))
	}

	return &AppConfig{
		Database: dbConfig,
		Auth:     authConfig,
		Server:   serverConfig,
		Log:      logConfig,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
