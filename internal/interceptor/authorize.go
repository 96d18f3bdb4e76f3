package interceptor

import (
	"strings"

	"golang.org/x/oauth2"
)

// ResponseTypeToken is the implicit-grant response type.
const ResponseTypeToken = "token"

// BuildAuthorizationURL returns the URL the browser surface should load to
// start the attempt. Query parameters are sorted by key so the result is
// stable for a given configuration. No state parameter is sent.
func BuildAuthorizationURL(cfg AuthConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	oc := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Scopes:      strings.Fields(cfg.EffectiveScope()),
		Endpoint: oauth2.Endpoint{
			AuthURL: cfg.AuthorizationEndpoint,
		},
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", ResponseTypeToken),
	}
	for k, v := range cfg.EffectiveExtraParams() {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}

	return oc.AuthCodeURL("", opts...), nil
}
