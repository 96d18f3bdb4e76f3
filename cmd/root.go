package cmd

import (
	"fmt"
	"io"
	"os"

	"authenticator/internal/cli"
	"authenticator/internal/config"
	"authenticator/pkg/logging"

	"github.com/spf13/cobra"
)

// Global flags shared by every subcommand.
var (
	configPath string
	debug      bool
)

// rootCmd represents the base command for the authenticator application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Persistent flag variables are reset to
// their defaults each time it is called.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authenticator",
		Short: "Obtain an OAuth2 access token through the implicit grant",
		Long: `authenticator opens an identity provider's authorization page, watches the
browser navigate, and captures the access token from the redirect back to the
configured redirect URI.

The provider settings are read from ~/.config/authenticator/config.yaml and can
be overridden with flags.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newAuthorizeURLCmd())

	root.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default is $HOME/.config/authenticator/config.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return root
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main() and exits with a semantic exit code on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "authenticator version %s\n" .Version}}`)

	// Errors are printed here so they get the same formatting as other CLI output.
	rootCmd.SilenceErrors = true

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), cli.FormatError(err))
		os.Exit(cli.ExitCode(err))
	}
}

// loadConfig initializes logging and loads the configuration file. Log
// output goes to logOut so stdout stays reserved for command results.
func loadConfig(logOut io.Writer) (config.Config, error) {
	// Only warnings until the file has been read, then apply its level.
	level := logging.LevelWarn
	if debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, logOut)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !debug {
		fileLevel, err := logging.ParseLogLevel(cfg.LogLevel)
		if err == nil && fileLevel != level {
			logging.InitForCLI(fileLevel, logOut)
		}
	}
	return cfg, nil
}
