// Package cli implements the nyatti command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyattihq/nyatti/internal/client/api"
	"github.com/nyattihq/nyatti/internal/client/config"
	"github.com/nyattihq/nyatti/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config

	// Version info (set by main package).
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersion sets the version information.
func SetVersion(v, b, g string) {
	version = v
	buildTime = b
	gitCommit = g
}

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "nyatti",
	Short: "Nyatti - launch your storefront from the terminal",
	Long: `Nyatti provisions shops and websites on nyatti.co subdomains.

Example usage:
  nyatti login                     # Sign in and save a session
  nyatti create                    # Launch the creation wizard
  nyatti sites list                # List your sites
  nyatti account                   # Show your profile`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Setup logger
		if err := logger.Setup(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: "stderr",
		}); err != nil {
			return fmt.Errorf("failed to setup logger: %w", err)
		}

		return nil
	},
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// apiClient builds a client from the loaded configuration.
func apiClient() *api.Client {
	return api.NewClient(cfg.Server.URL, cfg.Auth.Token)
}

// requireSession fails fast when no token is saved.
func requireSession() error {
	if cfg.Auth.Token == "" {
		return fmt.Errorf("not signed in. Run 'nyatti login' first")
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nyatti/config.yaml)")
}
