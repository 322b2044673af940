package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/hkdf"
)

// DefaultSessionSecret is only acceptable outside production
const DefaultSessionSecret = "change-me-in-production"

// Session backends
const (
	BackendCookie   = "cookie"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// APIConfig points at the ticketing API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret  string
	Backend string
	// MaxAge is the cookie lifetime in seconds
	MaxAge int
	// PurgeAfter is how long untouched server-side entries are kept
	PurgeAfter time.Duration
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load reads .env files and the environment, then applies command-line
// overrides from args. pflag.ErrHelp is returned when help was requested.
func Load(args []string) (*Config, error) {
	return LoadFlagSet(pflag.NewFlagSet("storefront", pflag.ContinueOnError), args)
}

// LoadFlagSet is Load for commands that register flags of their own on flags
func LoadFlagSet(flags *pflag.FlagSet, args []string) (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 0),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			Backend:    getEnv("SESSION_BACKEND", BackendCookie),
			MaxAge:     getEnvAsInt("SESSION_MAX_AGE", 86400*30),
			PurgeAfter: getEnvAsDuration("SESSION_PURGE_AFTER", 30*24*time.Hour),
		},
		Database: parseDatabaseConfig(),
	}

	flags.StringVar(&config.Server.Host, "host", config.Server.Host, "address to listen on")
	flags.StringVarP(&config.Server.Port, "port", "p", config.Server.Port, "port to listen on")
	flags.StringVar(&config.Server.Env, "env", config.Server.Env, "environment (development, production)")
	flags.StringVar(&config.API.BaseURL, "api-url", config.API.BaseURL, "ticketing API base URL")
	flags.DurationVar(&config.API.Timeout, "api-timeout", config.API.Timeout, "timeout per API request (0 for none)")
	flags.StringVar(&config.Session.Backend, "session-backend", config.Session.Backend, "visitor storage: cookie, postgres or memory")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that would otherwise fail at first use
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendCookie, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return errors.New("API timeout cannot be negative")
	}

	if c.IsProduction() && c.Session.Secret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr is the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// SessionKeys derives the cookie authentication and encryption keys from the
// session secret, so one secret can be configured for both.
func (c *Config) SessionKeys() (authKey, encryptionKey []byte, err error) {
	derive := func(info string, size int) ([]byte, error) {
		key := make([]byte, size)
		reader := hkdf.New(sha256.New, []byte(c.Session.Secret), nil, []byte(info))
		if _, err := io.ReadFull(reader, key); err != nil {
			return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
		}
		return key, nil
	}

	authKey, err = derive("session-authentication", 64)
	if err != nil {
		return nil, nil, err
	}
	encryptionKey, err = derive("session-encryption", 32)
	if err != nil {
		return nil, nil, err
	}
	return authKey, encryptionKey, nil
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "storefront"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// Unparseable URLs are handed to the driver as is
		return config
	}

	config.Host = u.Hostname()
	config.Port = 5432
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
