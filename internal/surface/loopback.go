package surface

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"authenticator/internal/interceptor"
	"authenticator/pkg/logging"
)

const subsystem = "Surface"

// shutdownDelay gives the browser time to receive the final page before the
// listener goes away.
const shutdownDelay = 1 * time.Second

//go:embed templates/success.html
var successHTML string

//go:embed templates/incomplete.html
var incompleteHTML string

var (
	successTemplate    = template.Must(template.New("success").Parse(successHTML))
	incompleteTemplate = template.Must(template.New("incomplete").Parse(incompleteHTML))
)

// ErrStopped is returned by Wait when the listener stopped before the
// authenticator was dismissed.
var ErrStopped = errors.New("loopback surface stopped before authentication completed")

// Loopback is a local HTTP listener standing in for the redirect host when
// the authorization page is shown in the system browser. Every request the
// browser sends to it is reported to the NavigationPolicy as a navigation.
//
// Loopback implements interceptor.Presenter: dismissal completes Wait and
// shuts the listener down once the final page has been served.
type Loopback struct {
	redirectURI string
	application string

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	policy   interceptor.NavigationPolicy

	done     chan struct{}
	stopped  chan struct{}
	errCh    chan error
	dismiss  sync.Once
	stopOnce sync.Once
}

var _ interceptor.Presenter = (*Loopback)(nil)

// LoopbackOption configures a Loopback.
type LoopbackOption func(*Loopback)

// WithApplicationName sets the name shown on the pages served to the browser.
func WithApplicationName(name string) LoopbackOption {
	return func(l *Loopback) {
		l.application = name
	}
}

// NewLoopback creates a loopback surface for redirectURI. The URI must use
// the http scheme; a zero port picks a free one when Listen is called.
func NewLoopback(redirectURI string, opts ...LoopbackOption) *Loopback {
	l := &Loopback{
		redirectURI: redirectURI,
		application: "the application",
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		errCh:       make(chan error, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Listen binds the redirect URI's host and port and returns the effective
// redirect URI. The result equals the configured URI unless it asked for
// port 0, in which case the chosen port is filled in.
func (l *Loopback) Listen() (string, error) {
	u, err := url.Parse(l.redirectURI)
	if err != nil {
		return "", l.invalidRedirect("is not a valid URL", err)
	}
	if u.Scheme != "http" {
		return "", l.invalidRedirect("must use the http scheme for the loopback surface", nil)
	}
	if u.Hostname() == "" {
		return "", l.invalidRedirect("has no host", nil)
	}

	port := u.Port()
	if port == "" {
		port = "80"
	}
	addr := net.JoinHostPort(u.Hostname(), port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start loopback surface on %s: %w", addr, err)
	}

	effective := l.redirectURI
	if port == "0" {
		u.Host = net.JoinHostPort(u.Hostname(), fmt.Sprint(listener.Addr().(*net.TCPAddr).Port))
		effective = u.String()
	}

	l.mu.Lock()
	l.listener = listener
	l.redirectURI = effective
	l.mu.Unlock()

	logging.Debug(subsystem, "loopback surface listening on %s", listener.Addr())
	return effective, nil
}

// invalidRedirect reports a redirect URI the loopback surface cannot bind.
func (l *Loopback) invalidRedirect(reason string, err error) error {
	return &interceptor.InvalidConfigurationError{
		Field:  "redirectUri",
		Value:  l.redirectURI,
		Reason: reason,
		Err:    err,
	}
}

// Serve starts answering browser requests with policy. Listen must have been
// called. The listener stops when ctx is cancelled or after dismissal.
func (l *Loopback) Serve(ctx context.Context, policy interceptor.NavigationPolicy) error {
	l.mu.Lock()
	if l.listener == nil {
		l.mu.Unlock()
		return errors.New("loopback surface is not listening")
	}
	if l.server != nil {
		l.mu.Unlock()
		return errors.New("loopback surface is already serving")
	}

	l.policy = policy
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleNavigation)
	l.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server, listener := l.server, l.listener
	l.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case l.errCh <- err:
			default:
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			l.Stop()
		case <-l.stopped:
		}
	}()

	return nil
}

// RedirectURI returns the effective redirect URI.
func (l *Loopback) RedirectURI() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.redirectURI
}

// Addr returns the bound address, or nil before Listen.
func (l *Loopback) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Done is closed once the authenticator has been dismissed.
func (l *Loopback) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the authenticator is dismissed, the server fails, the
// surface is stopped or ctx ends.
func (l *Loopback) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case err := <-l.errCh:
		return fmt.Errorf("loopback surface failed: %w", err)
	case <-l.stopped:
		select {
		case <-l.done:
			return nil
		default:
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DismissAuthenticator marks the attempt complete and schedules shutdown.
func (l *Loopback) DismissAuthenticator() {
	l.dismiss.Do(func() {
		logging.Debug(subsystem, "authenticator dismissed, shutting down loopback surface")
		close(l.done)
		time.AfterFunc(shutdownDelay, l.Stop)
	})
}

// Stop gracefully shuts down the listener. It is safe to call more than once.
func (l *Loopback) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		server, listener := l.server, l.listener
		l.mu.Unlock()

		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}
		if listener != nil {
			_ = listener.Close()
		}
		close(l.stopped)
	})
}

// handleNavigation reports the request as a navigation and renders the
// outcome for the browser.
func (l *Loopback) handleNavigation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")

	target := "http://" + r.Host + r.URL.RequestURI()

	l.mu.Lock()
	policy := l.policy
	l.mu.Unlock()

	decision := policy.Navigate(interceptor.NavigationRequest{TargetURL: target})
	if decision == interceptor.Allow {
		http.NotFound(w, r)
		return
	}

	tmpl, status := incompleteTemplate, http.StatusBadRequest
	select {
	case <-l.done:
		tmpl, status = successTemplate, http.StatusOK
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, map[string]string{"Application": l.application}); err != nil {
		logging.Error(subsystem, err, "failed to render loopback page")
	}
}
