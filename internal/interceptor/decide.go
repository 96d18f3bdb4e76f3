package interceptor

import (
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Decision is the answer given to a browser surface for a proposed navigation.
type Decision int

const (
	// Allow lets the surface load the URL.
	Allow Decision = iota
	// Deny cancels the navigation; the URL is never loaded.
	Deny
)

// String makes Decision satisfy the fmt.Stringer interface.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// AccessTokenParam is the redirect query parameter carrying the token.
const AccessTokenParam = "access_token"

// NavigationRequest is a single navigation proposed by a browser surface.
type NavigationRequest struct {
	// TargetURL is the absolute URL the surface is about to load.
	TargetURL string
}

// TokenResult carries the access token extracted from a redirect.
type TokenResult struct {
	AccessToken string
}

// OAuth2Token converts the result to an oauth2.Token. The implicit grant
// carries no expiry or refresh token, so only the access token is set.
func (r *TokenResult) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: r.AccessToken,
		TokenType:   "Bearer",
	}
}

// Decide classifies a navigation against the configuration. It has no side
// effects; the returned TokenResult is non-nil only for a redirect carrying a
// non-empty access_token.
//
// Matching is a case-sensitive string prefix test on the raw URL. Suppressed
// prefixes are checked before the redirect URI.
func Decide(req NavigationRequest, cfg AuthConfig) (Decision, *TokenResult) {
	target := req.TargetURL

	for _, prefix := range cfg.SuppressedPrefixes {
		if prefix != "" && strings.HasPrefix(target, prefix) {
			return Deny, nil
		}
	}

	if cfg.RedirectURI != "" && strings.HasPrefix(target, cfg.RedirectURI) {
		token := accessTokenFromURL(target)
		if token == "" {
			return Deny, nil
		}
		return Deny, &TokenResult{AccessToken: token}
	}

	return Allow, nil
}

// accessTokenFromURL returns the first access_token query value, or "" when
// the URL cannot be parsed or the query holds an invalid percent-escape.
// Only '&' separates pairs; ';' is ordinary data inside a name or value.
func accessTokenFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	token, found := "", false
	for _, pair := range splitQuery(u.RawQuery) {
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return ""
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return ""
		}
		if name == AccessTokenParam && !found {
			token, found = value, true
		}
	}
	return token
}

// splitQuery splits a raw query into its non-empty '&'-separated pairs.
func splitQuery(rawQuery string) []string {
	var pairs []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair != "" {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}
