package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Store        StoreConfig
	Remote       RemoteConfig
	Connectivity ConnectivityConfig
	Sync         SyncConfig
	Catalog      CatalogConfig
	Terminal     TerminalConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type StoreConfig struct {
	SQLitePath string
}

type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ConnectivityConfig struct {
	ProbeAddr     string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

type SyncConfig struct {
	Interval   time.Duration
	MaxRejects int
}

type CatalogConfig struct {
	RefreshInterval time.Duration
}

type TerminalConfig struct {
	AccountID int64
}

func LoadEnv() *Config {
	// Basic config loading
	// In a real scenario, use structured config loader like viper or koanf
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8083"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			SQLitePath: getEnv("SQLITE_PATH", "omnipos-terminal.db"),
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("REMOTE_BASE_URL", "http://localhost:8082/api/v1"),
			Timeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),
		},
		Connectivity: ConnectivityConfig{
			ProbeAddr:     getEnv("CONNECTIVITY_PROBE_ADDR", "localhost:8082"),
			ProbeInterval: getEnvDuration("CONNECTIVITY_PROBE_INTERVAL", 5*time.Second),
			ProbeTimeout:  getEnvDuration("CONNECTIVITY_PROBE_TIMEOUT", 2*time.Second),
		},
		Sync: SyncConfig{
			Interval:   getEnvDuration("SYNC_INTERVAL", 5*time.Second),
			MaxRejects: getEnvInt("SYNC_MAX_REJECTS", 5),
		},
		Catalog: CatalogConfig{
			RefreshInterval: getEnvDuration("CATALOG_REFRESH_INTERVAL", 60*time.Second),
		},
		Terminal: TerminalConfig{
			AccountID: getEnvInt64("TERMINAL_ACCOUNT_ID", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
