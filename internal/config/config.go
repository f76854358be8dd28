package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Config holds the server's runtime settings: listen address, database
// connection string, JWT signing secret, and the staleness horizon used to
// evict abandoned waiting matches.
type Config struct {
	HTTPAddr           string        `json:"http_addr"`
	DatabaseURL        string        `json:"database_url"`
	JWTSecret          string        `json:"jwt_secret"`
	StaleWaiterHorizon time.Duration `json:"-"`
	StaleWaiterSeconds int64         `json:"stale_waiter_seconds"`
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads the server configuration from the JSON file at path, then
// applies DATABASE_URL/JWT_SECRET environment overrides on top. Only the
// first call does any work; later calls return the cached result.
func Load(path string) (*Config, error) {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read config: %w", err)
			return
		}

		var c Config
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}

		if c.HTTPAddr == "" {
			c.HTTPAddr = ":8080"
		}
		if c.StaleWaiterSeconds == 0 {
			c.StaleWaiterSeconds = 60
		}
		c.StaleWaiterHorizon = time.Duration(c.StaleWaiterSeconds) * time.Second

		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
		if v := os.Getenv("JWT_SECRET"); v != "" {
			c.JWTSecret = v
		}

		if c.DatabaseURL == "" {
			loadErr = fmt.Errorf("config: database_url is required")
			return
		}
		if c.JWTSecret == "" {
			loadErr = fmt.Errorf("config: jwt_secret is required")
			return
		}

		cfg = &c
	})
	return cfg, loadErr
}

// Get returns the already-loaded configuration, or nil if Load has not
// been called successfully yet.
func Get() *Config {
	return cfg
}

// PathFromEnv resolves the config file path: CONFIG_PATH if set, else
// "config.json" in the working directory.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.json"
}
