package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"authenticator/internal/cli"
	"authenticator/internal/interceptor"
)

// newAuthorizeURLCmd creates the authorize-url command.
func newAuthorizeURLCmd() *cobra.Command {
	var (
		auth       authFlags
		showParams bool
	)

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the authorization URL without starting a login",
		Long: `Print the authorization request URL built from the configuration.

Useful for checking the parameters sent to the provider or for loading the URL
in an embedded browser that reports navigations itself.

Examples:
  authenticator authorize-url
  authenticator authorize-url --show-params
  authenticator authorize-url --param prompt=login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			authURL, err := interceptor.BuildAuthorizationURL(auth.apply(cfg))
			if err != nil {
				return &cli.InvalidConfigError{Reason: err}
			}

			if showParams {
				return cli.RenderQueryParams(cmd.OutOrStdout(), authURL)
			}
			fmt.Fprintln(cmd.OutOrStdout(), authURL)
			return nil
		},
	}

	auth.register(cmd)
	cmd.Flags().BoolVar(&showParams, "show-params", false, "Show the query parameters as a table instead of the URL")

	return cmd
}
