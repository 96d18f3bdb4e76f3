package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"authenticator/internal/cli"
	"authenticator/internal/interceptor"
	"authenticator/internal/surface"
	"authenticator/pkg/logging"
)

// openBrowser is a variable so tests can stand in for the system browser.
var openBrowser = surface.OpenBrowser

// loginOptions holds the flags of the login command.
type loginOptions struct {
	auth      authFlags
	timeout   time.Duration
	noBrowser bool
	headless  bool
	quiet     bool
	output    string
}

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print an access token",
		Long: `Authenticate with the identity provider using the OAuth2 implicit grant.

The authorization page opens in your default browser. A local listener on the
redirect URI's host and port receives the provider's redirect, extracts the
access_token query parameter and closes itself. The token is printed on
standard output; progress is printed on standard error.

Examples:
  authenticator login
  authenticator login --endpoint https://idp.example.com/authorize --client-id abc123
  authenticator login --no-browser              # print the URL instead of opening it
  authenticator login --headless                # follow redirects without a browser
  authenticator login --output json             # print an oauth2 token object`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	opts.auth.register(cmd)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "How long to wait for the redirect (default from config, 10m)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Follow the provider's redirects without a browser")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text or json")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unsupported output format %q (use text or json)", opts.output)
	}
	if opts.headless && opts.noBrowser {
		return errors.New("--headless and --no-browser cannot be combined")
	}

	errOut := cmd.ErrOrStderr()
	cfg, err := loadConfig(errOut)
	if err != nil {
		return err
	}

	auth := opts.auth.apply(cfg)
	if err := auth.Validate(); err != nil {
		return &cli.InvalidConfigError{Reason: err}
	}

	timeout := cfg.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	tokens := make(chan string, 1)
	onToken := func(token string) {
		tokens <- token
	}

	if opts.headless {
		err = loginHeadless(ctx, auth, onToken)
	} else {
		err = loginWithBrowser(ctx, errOut, auth, onToken, opts)
	}

	var token string
	select {
	case token = <-tokens:
	default:
	}

	if token == "" {
		if err == nil {
			err = errors.New("no access token was received")
		} else if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("no access token received within %s", timeout)
		}
		var cfgErr *interceptor.InvalidConfigurationError
		if errors.As(err, &cfgErr) {
			return &cli.InvalidConfigError{Reason: err}
		}
		return &cli.AuthFailedError{Endpoint: auth.AuthorizationEndpoint, Reason: err}
	}

	if !opts.quiet {
		fmt.Fprintln(errOut, cli.FormatSuccess("Access token received"))
	}
	return writeToken(cmd.OutOrStdout(), token, opts.output)
}

// loginWithBrowser runs the attempt in the system browser with a loopback
// listener standing in for the redirect host.
func loginWithBrowser(ctx context.Context, errOut io.Writer, auth interceptor.AuthConfig, onToken func(string), opts *loginOptions) error {
	lb := surface.NewLoopback(auth.RedirectURI, surface.WithApplicationName("authenticator"))
	redirectURI, err := lb.Listen()
	if err != nil {
		return err
	}
	defer lb.Stop()

	auth.RedirectURI = redirectURI
	ri, err := interceptor.New(auth, onToken, interceptor.WithPresenter(lb))
	if err != nil {
		return err
	}
	if err := lb.Serve(ctx, ri); err != nil {
		return err
	}

	authURL := ri.AuthorizationURL()
	logging.Debug("CLI", "attempt %s started, redirect URI %s", ri.ID(), redirectURI)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return lb.Wait(gctx)
	})
	g.Go(func() error {
		if opts.noBrowser {
			fmt.Fprintf(errOut, "Open this URL in your browser to authenticate:\n\n  %s\n\n", authURL)
			return nil
		}
		if err := openBrowser(authURL); err != nil {
			logging.Warn("CLI", "could not open browser: %v", err)
			fmt.Fprintln(errOut, cli.FormatWarning("Could not open a browser. Open this URL to authenticate:"))
			fmt.Fprintf(errOut, "\n  %s\n\n", authURL)
		}
		return nil
	})

	progress := cli.StartProgress(errOut, "Waiting for authentication in the browser...", opts.quiet)
	err = g.Wait()
	progress.Stop()
	return err
}

// loginHeadless follows the provider's redirects without a browser.
func loginHeadless(ctx context.Context, auth interceptor.AuthConfig, onToken func(string)) error {
	ri, err := interceptor.New(auth, onToken, interceptor.WithPresenter(interceptor.PresenterFunc(func() {
		logging.Debug("CLI", "headless surface dismissed")
	})))
	if err != nil {
		return err
	}

	hops, err := surface.NewHeadless(ri).Follow(ctx, ri.AuthorizationURL())
	if err != nil {
		return err
	}
	if !ri.Emitted() {
		return fmt.Errorf("redirect chain ended after %d navigations without reaching the redirect URI with a token", hops)
	}
	return nil
}

// writeToken prints the token in the requested format.
func writeToken(w io.Writer, token, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		result := &interceptor.TokenResult{AccessToken: token}
		return enc.Encode(result.OAuth2Token())
	}
	_, err := fmt.Fprintln(w, token)
	return err
}
