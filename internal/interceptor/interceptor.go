package interceptor

import (
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"authenticator/pkg/logging"
)

const subsystem = "Interceptor"

// Presenter is the host capability to tear down the presentation surface.
// The interceptor only requests dismissal; it never owns the surface.
type Presenter interface {
	DismissAuthenticator()
}

// PresenterFunc adapts an ordinary function to the Presenter interface.
type PresenterFunc func()

// DismissAuthenticator calls f.
func (f PresenterFunc) DismissAuthenticator() {
	f()
}

// NavigationPolicy answers navigation requests from a browser surface.
type NavigationPolicy interface {
	Navigate(req NavigationRequest) Decision
}

// Option configures a RedirectInterceptor.
type Option func(*RedirectInterceptor)

// WithPresenter sets the presenter asked to dismiss the surface once a token
// has been delivered.
func WithPresenter(p Presenter) Option {
	return func(ri *RedirectInterceptor) {
		ri.presenter = p
	}
}

// RedirectInterceptor holds the state of one authentication attempt.
// Create a new instance for every attempt.
type RedirectInterceptor struct {
	id        string
	cfg       AuthConfig
	authURL   string
	onToken   func(string)
	presenter Presenter

	// mu serializes Navigate so that exactly one decision is outstanding,
	// even when a surface reports navigations from several goroutines.
	mu      sync.Mutex
	emitted atomic.Bool
}

var _ NavigationPolicy = (*RedirectInterceptor)(nil)

// New validates cfg, builds the authorization URL and returns an interceptor
// for a single attempt. onToken receives the access token at most once.
// A configuration error is returned before any surface needs to exist.
func New(cfg AuthConfig, onToken func(string), opts ...Option) (*RedirectInterceptor, error) {
	cfg = cfg.Clone()

	authURL, err := BuildAuthorizationURL(cfg)
	if err != nil {
		return nil, err
	}

	ri := &RedirectInterceptor{
		id:      uuid.NewString(),
		cfg:     cfg,
		authURL: authURL,
		onToken: onToken,
	}
	for _, opt := range opts {
		opt(ri)
	}

	logging.Debug(subsystem, "attempt %s created for client %s, redirect %s", ri.id, cfg.ClientID, cfg.RedirectURI)
	return ri, nil
}

// ID returns the attempt identifier used in log lines.
func (ri *RedirectInterceptor) ID() string {
	return ri.id
}

// AuthorizationURL returns the URL the surface should load first.
func (ri *RedirectInterceptor) AuthorizationURL() string {
	return ri.authURL
}

// Config returns a copy of the attempt configuration.
func (ri *RedirectInterceptor) Config() AuthConfig {
	return ri.cfg.Clone()
}

// Emitted reports whether the token has already been delivered.
func (ri *RedirectInterceptor) Emitted() bool {
	return ri.emitted.Load()
}

// Navigate decides a navigation and performs the resulting side effects.
// On the first redirect carrying a token it calls onToken and then asks the
// presenter to dismiss the surface; later redirects are denied silently.
// Callbacks run on the calling goroutine before Navigate returns and must not
// call Navigate themselves.
func (ri *RedirectInterceptor) Navigate(req NavigationRequest) Decision {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	decision, result := Decide(req, ri.cfg)

	switch {
	case decision == Allow:
		logging.Debug(subsystem, "attempt %s: allow %s", ri.id, redactURL(req.TargetURL))
	case result == nil:
		logging.Debug(subsystem, "attempt %s: deny %s (no token)", ri.id, redactURL(req.TargetURL))
	case !ri.emitted.CompareAndSwap(false, true):
		logging.Debug(subsystem, "attempt %s: deny redirect, token already delivered", ri.id)
	default:
		logging.Info(subsystem, "attempt %s: access token received (%s)", ri.id, logging.TruncateToken(result.AccessToken))
		if ri.onToken != nil {
			ri.onToken(result.AccessToken)
		}
		if ri.presenter != nil {
			ri.presenter.DismissAuthenticator()
		}
	}

	return decision
}

// redactURL masks every access_token value and drops the fragment so URLs
// can be logged. Pairs whose name cannot be unescaped are masked as well.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	u.Fragment, u.RawFragment = "", ""

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		rawName, _, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			continue
		}
		if name, err := url.QueryUnescape(rawName); err != nil || name == AccessTokenParam {
			pairs[i] = rawName + "=REDACTED"
		}
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String()
}
