package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Token secrets and lifetimes are fixed once at
// startup and handed to the token service; nothing reads them afterwards.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	DBMigrate     bool          // run embedded migrations at startup
	AccessSecret  string        // secret used to sign access tokens
	RefreshSecret string        // secret used to sign refresh tokens
	AccessTTL     time.Duration // access token lifetime
	RefreshTTL    time.Duration // refresh token lifetime
	BcryptCost    int           // bcrypt cost for password hashing
	CORSOrigins   []string      // origins allowed to call the API from a browser
	LogLevel      string        // zap level (debug, info, warn, error)
	LogEncoding   string        // json or console
}

// Load reads an optional .env file and then the process environment.
// Missing secrets and unparsable values are reported as errors so main can
// decide how to exit.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "3000"),
		DBUser:      envStr("DB_USER", "root"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      envStr("DB_HOST", "127.0.0.1"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      envStr("DB_NAME", "task_manager"),
		DBMigrate:   envBool("DB_MIGRATE", true),
		BcryptCost:  envInt("BCRYPT_COST", 10),
		CORSOrigins: splitList(envStr("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogEncoding: envStr("LOG_ENCODING", "json"),
	}

	var err error
	if cfg.AccessSecret, err = must("ACCESS_TOKEN_SECRET"); err != nil {
		return Config{}, err
	}
	if cfg.RefreshSecret, err = must("REFRESH_TOKEN_SECRET"); err != nil {
		return Config{}, err
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if cfg.AccessTTL, err = ParseExpiry(envStr("ACCESS_TOKEN_EXPIRY", "15m")); err != nil {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRY: %w", err)
	}
	if cfg.RefreshTTL, err = ParseExpiry(envStr("REFRESH_TOKEN_EXPIRY", "7d")); err != nil {
		return Config{}, fmt.Errorf("REFRESH_TOKEN_EXPIRY: %w", err)
	}
	return cfg, nil
}

// ParseExpiry accepts Go durations ("15m", "168h") and a day suffix ("7d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", s)
	}
	return d, nil
}

// must retrieves the value of a required environment variable.
func must(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
