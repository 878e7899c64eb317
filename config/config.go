// Package config loads the runtime configuration from the environment and an optional .env file
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/celestiaorg/pamdiscover/internal/constants"
	"github.com/celestiaorg/pamdiscover/internal/db"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/routes"
)

// Config is the runtime configuration of the CLI
type Config struct {
	RouterURL   string
	RouterToken string
	DBDriver    string
	DBDSN       string
	Timeout     time.Duration
	LogLevel    string
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load reads the .env files given (".env" when none) and then the environment.
// Variables already set in the environment win over the files, and missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		RouterURL:   GetEnv(constants.EnvRouterURL, routes.DefaultBaseURL),
		RouterToken: GetEnv(constants.EnvRouterToken, ""),
		DBDriver:    GetEnv(constants.EnvDBDriver, db.DefaultDriver),
		DBDSN:       GetEnv(constants.EnvDBDSN, ""),
		Timeout:     client.DefaultTimeout,
		LogLevel:    GetEnv(constants.EnvLogLevel, "info"),
	}

	if raw := GetEnv(constants.EnvTimeout, ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", constants.EnvTimeout, raw, err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}
