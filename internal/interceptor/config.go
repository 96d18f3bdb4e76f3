package interceptor

import (
	"net/url"
	"strings"
)

// DefaultScope is the scope requested when AuthConfig.Scope is empty.
const DefaultScope = "openid profile user_info_all"

// DefaultRedirectURI is the loopback redirect URI used when none is configured.
const DefaultRedirectURI = "http://localhost:3000"

// reservedParams are set from AuthConfig fields and cannot be overridden
// through ExtraParams.
var reservedParams = []string{"client_id", "response_type", "scope", "redirect_uri"}

// DefaultExtraParams returns the extra authorization parameters sent when
// AuthConfig.ExtraParams is nil.
func DefaultExtraParams() map[string]string {
	return map[string]string{
		"groups_info":   "0",
		"response_mode": "query",
	}
}

// AuthConfig describes a single implicit-grant authentication attempt.
type AuthConfig struct {
	// AuthorizationEndpoint is the provider's authorization URL.
	AuthorizationEndpoint string `yaml:"authorizationEndpoint" json:"authorizationEndpoint"`

	// ClientID identifies the application to the provider.
	ClientID string `yaml:"clientId" json:"clientId"`

	// RedirectURI is sent as redirect_uri and used as the literal prefix that
	// identifies the provider's redirect back to the application.
	RedirectURI string `yaml:"redirectUri" json:"redirectUri"`

	// Scope is the space-separated scope list. Empty means DefaultScope.
	Scope string `yaml:"scope,omitempty" json:"scope,omitempty"`

	// ExtraParams are appended to the authorization request. A nil map means
	// DefaultExtraParams; an empty map sends nothing extra.
	ExtraParams map[string]string `yaml:"extraParams,omitempty" json:"extraParams,omitempty"`

	// SuppressedPrefixes are URL prefixes of pages the provider may navigate
	// to after login that must never be loaded, such as a profile page.
	SuppressedPrefixes []string `yaml:"suppressedPrefixes,omitempty" json:"suppressedPrefixes,omitempty"`
}

// NewAuthConfig returns an AuthConfig with the default scope and extra params.
func NewAuthConfig(authorizationEndpoint, clientID, redirectURI string) AuthConfig {
	return AuthConfig{
		AuthorizationEndpoint: authorizationEndpoint,
		ClientID:              clientID,
		RedirectURI:           redirectURI,
		Scope:                 DefaultScope,
		ExtraParams:           DefaultExtraParams(),
	}
}

// EffectiveScope returns Scope, or DefaultScope when Scope is empty or
// whitespace only.
func (c AuthConfig) EffectiveScope() string {
	if strings.TrimSpace(c.Scope) == "" {
		return DefaultScope
	}
	return c.Scope
}

// EffectiveExtraParams returns ExtraParams, or DefaultExtraParams when nil.
func (c AuthConfig) EffectiveExtraParams() map[string]string {
	if c.ExtraParams == nil {
		return DefaultExtraParams()
	}
	return c.ExtraParams
}

// Clone returns a deep copy of the configuration.
func (c AuthConfig) Clone() AuthConfig {
	out := c
	if c.ExtraParams != nil {
		out.ExtraParams = make(map[string]string, len(c.ExtraParams))
		for k, v := range c.ExtraParams {
			out.ExtraParams[k] = v
		}
	}
	if c.SuppressedPrefixes != nil {
		out.SuppressedPrefixes = append([]string(nil), c.SuppressedPrefixes...)
	}
	return out
}

// Validate checks the configuration. Every failure matches
// ErrInvalidConfiguration.
func (c AuthConfig) Validate() error {
	if strings.TrimSpace(c.AuthorizationEndpoint) == "" {
		return invalidField("authorizationEndpoint", "", "is required", nil)
	}
	endpoint, err := url.Parse(c.AuthorizationEndpoint)
	if err != nil {
		return invalidField("authorizationEndpoint", c.AuthorizationEndpoint, "is not a valid URL", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return invalidField("authorizationEndpoint", c.AuthorizationEndpoint, "must be an absolute URL", nil)
	}
	// Query parameters are appended to the endpoint, so a fragment would swallow them.
	if strings.Contains(c.AuthorizationEndpoint, "#") {
		return invalidField("authorizationEndpoint", c.AuthorizationEndpoint, "must not contain a fragment", nil)
	}

	if c.ClientID == "" {
		return invalidField("clientId", "", "is required", nil)
	}
	if c.RedirectURI == "" {
		return invalidField("redirectUri", "", "is required", nil)
	}

	for _, key := range reservedParams {
		if _, ok := c.ExtraParams[key]; ok {
			return invalidField("extraParams", key, "must not override a standard parameter", nil)
		}
	}
	return nil
}
