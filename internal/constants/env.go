// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvRouterURL is the environment variable containing the base URL of the router
	EnvRouterURL = "PAMDISCOVER_ROUTER_URL"

	// EnvRouterToken is the environment variable containing the session token sent to the router
	EnvRouterToken = "PAMDISCOVER_ROUTER_TOKEN"

	// EnvDBDriver is the environment variable selecting the vault cache driver, sqlite or postgres
	EnvDBDriver = "PAMDISCOVER_DB_DRIVER"

	// EnvDBDSN is the environment variable containing the vault cache file path or connection string
	EnvDBDSN = "PAMDISCOVER_DB_DSN"

	// EnvTimeout is the environment variable containing the router request timeout, e.g. "30s"
	EnvTimeout = "PAMDISCOVER_TIMEOUT"

	// EnvLogLevel is the environment variable containing the log level
	EnvLogLevel = "LOG_LEVEL"
)
