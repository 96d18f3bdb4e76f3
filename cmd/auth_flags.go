package cmd

import (
	"github.com/spf13/cobra"

	"authenticator/internal/config"
	"authenticator/internal/interceptor"
)

// authFlags holds the provider overrides accepted by login and authorize-url.
type authFlags struct {
	endpoint    string
	clientID    string
	redirectURI string
	scope       string
	params      map[string]string
	noExtra     bool
	suppress    []string
}

func (f *authFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Authorization endpoint URL")
	cmd.Flags().StringVar(&f.clientID, "client-id", "", "OAuth client identifier")
	cmd.Flags().StringVar(&f.redirectURI, "redirect-uri", "", "Redirect URI prefix (default "+interceptor.DefaultRedirectURI+")")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Space-separated scopes (default \""+interceptor.DefaultScope+"\")")
	cmd.Flags().StringToStringVar(&f.params, "param", nil, "Extra authorization parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&f.noExtra, "no-extra-params", false, "Send no extra parameters except those given with --param")
	cmd.Flags().StringSliceVar(&f.suppress, "suppress", nil, "URL prefix of a page that must never load (repeatable)")
}

// apply returns the provider settings from cfg with the flag overrides
// applied. cfg is not modified.
func (f *authFlags) apply(cfg config.Config) interceptor.AuthConfig {
	auth := cfg.AuthConfig()

	if f.endpoint != "" {
		auth.AuthorizationEndpoint = f.endpoint
	}
	if f.clientID != "" {
		auth.ClientID = f.clientID
	}
	if f.redirectURI != "" {
		auth.RedirectURI = f.redirectURI
	}
	if f.scope != "" {
		auth.Scope = f.scope
	}
	if f.noExtra {
		auth.ExtraParams = map[string]string{}
	}
	if len(f.params) > 0 {
		if auth.ExtraParams == nil {
			auth.ExtraParams = interceptor.DefaultExtraParams()
		}
		for k, v := range f.params {
			auth.ExtraParams[k] = v
		}
	}
	auth.SuppressedPrefixes = append(auth.SuppressedPrefixes, f.suppress...)

	return auth
}
