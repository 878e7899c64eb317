package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/pamdiscover/config"
	"github.com/celestiaorg/pamdiscover/internal/app"
	"github.com/celestiaorg/pamdiscover/internal/constants"
	"github.com/celestiaorg/pamdiscover/internal/logger"
)

// flag names
const (
	flagRouterURL = "router-url"
	flagDBDriver  = "db-driver"
	flagDBDSN     = "db-dsn"
	flagTimeout   = "timeout"
	flagDebug     = "debug"
)

var (
	// session is created once per process by PersistentPreRunE and shared by every command
	session *app.Session
	// sessionErr is why session could not be opened
	sessionErr error

	routerURL string
	dbDriver  string
	dbDSN     string
	timeout   time.Duration
	debug     bool
)

func init() {
	// Defaults are empty here. PersistentPreRunE applies flag > env > default.
	RootCmd.PersistentFlags().StringVar(&routerURL, flagRouterURL, "", "Base URL of the router (env: "+constants.EnvRouterURL+")")
	RootCmd.PersistentFlags().StringVar(&dbDriver, flagDBDriver, "", "Vault cache driver, sqlite or postgres (env: "+constants.EnvDBDriver+")")
	RootCmd.PersistentFlags().StringVar(&dbDSN, flagDBDSN, "", "Vault cache file or connection string (env: "+constants.EnvDBDSN+")")
	RootCmd.PersistentFlags().DurationVar(&timeout, flagTimeout, 0, "Router request timeout (env: "+constants.EnvTimeout+")")
	RootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "Enable debug logging")

	RootCmd.AddCommand(GetDiscoverStartCmd())
	RootCmd.AddCommand(GetDiscoverStatusCmd())
	RootCmd.AddCommand(GetDiscoverGetCmd())
	RootCmd.AddCommand(GetDiscoverProcessCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pamdiscover",
	Short: "pamdiscover - run PAM gateway discovery jobs",
	Long: `pamdiscover starts discovery jobs on PAM gateways, tracks their progress and turns
their results into vault records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if session != nil {
			return nil
		}
		// A session that cannot be opened is reported like any other failure, see requireSession
		if sessionErr = openSession(cmd); sessionErr != nil {
			printFailure(cmd, "Could not open the discovery session: %v", sessionErr)
		}
		return nil
	},
}

// openSession loads the configuration and creates the process session
func openSession(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flag > Env Var > Default
	if cmd.Flags().Changed(flagRouterURL) {
		cfg.RouterURL = routerURL
	}
	if cmd.Flags().Changed(flagDBDriver) {
		cfg.DBDriver = dbDriver
	}
	if cmd.Flags().Changed(flagDBDSN) {
		cfg.DBDSN = dbDSN
	}
	if cmd.Flags().Changed(flagTimeout) {
		cfg.Timeout = timeout
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	logger.InitializeAndConfigure(cfg.LogLevel)

	if cfg.RouterURL == "" {
		return fmt.Errorf("router URL cannot be empty")
	}
	logger.Debugf("router: %s, vault cache: %s", cfg.RouterURL, cfg.DBDriver)
	session, err = app.NewSession(cfg)
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if session != nil {
			_ = session.Close()
		}
	}()
	return RootCmd.Execute()
}

// requireSession returns the process session. When it could not be opened the failure was
// already printed and ok is false.
func requireSession() (s *app.Session, ok bool) {
	return session, session != nil && sessionErr == nil
}

// commandContext returns the command's context, or a background context when none was set
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
