package surface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"authenticator/internal/interceptor"
	"authenticator/pkg/logging"
)

// DefaultMaxHops bounds the redirect chain followed by a Headless surface.
const DefaultMaxHops = 20

// DefaultHTTPTimeout is the default timeout for a whole Follow call.
const DefaultHTTPTimeout = 30 * time.Second

// ErrTooManyHops is returned when a redirect chain exceeds the hop limit.
var ErrTooManyHops = errors.New("too many redirects")

// Headless is a browser surface without a user interface. It follows HTTP
// redirects and asks the NavigationPolicy before every hop, including the
// first request. It suits identity providers that redirect back without
// interaction, such as a session-cookie or test provider; pages that need
// a user to sign in never reach the redirect.
type Headless struct {
	policy     interceptor.NavigationPolicy
	httpClient *http.Client
	maxHops    int
}

// HeadlessOption configures a Headless surface.
type HeadlessOption func(*Headless)

// WithHTTPClient sets the HTTP client used for navigations. Its CheckRedirect
// hook is replaced on a private copy; the caller's client is not modified.
func WithHTTPClient(c *http.Client) HeadlessOption {
	return func(h *Headless) {
		h.httpClient = c
	}
}

// WithMaxHops sets the maximum number of redirects followed.
func WithMaxHops(n int) HeadlessOption {
	return func(h *Headless) {
		h.maxHops = n
	}
}

// NewHeadless creates a headless surface reporting to policy.
func NewHeadless(policy interceptor.NavigationPolicy, opts ...HeadlessOption) *Headless {
	h := &Headless{
		policy:     policy,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		maxHops:    DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Follow loads startURL and follows redirects until the policy denies a
// navigation, a non-redirect response arrives or the hop limit is reached.
// It returns the number of navigations the policy allowed.
func (h *Headless) Follow(ctx context.Context, startURL string) (int, error) {
	if h.policy.Navigate(interceptor.NavigationRequest{TargetURL: startURL}) == interceptor.Deny {
		logging.Debug(subsystem, "headless surface: initial navigation denied")
		return 0, nil
	}
	allowed := 1

	client := *h.httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > h.maxHops {
			return ErrTooManyHops
		}
		if h.policy.Navigate(interceptor.NavigationRequest{TargetURL: req.URL.String()}) == interceptor.Deny {
			return http.ErrUseLastResponse
		}
		allowed++
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, startURL, nil)
	if err != nil {
		return allowed, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return allowed, fmt.Errorf("navigation failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logging.Debug(subsystem, "headless surface stopped after %d navigations with status %d", allowed, resp.StatusCode)
	return allowed, nil
}
