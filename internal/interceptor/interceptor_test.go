package interceptor

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authenticator/pkg/logging"
)

// recorder captures the callbacks of one attempt in call order.
type recorder struct {
	mu     sync.Mutex
	tokens []string
	events []string
}

func (r *recorder) onToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	r.events = append(r.events, "token")
}

func (r *recorder) DismissAuthenticator() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "dismiss")
}

func newTestInterceptor(t *testing.T) (*RedirectInterceptor, *recorder) {
	t.Helper()
	rec := &recorder{}
	ri, err := New(testConfig(), rec.onToken, WithPresenter(rec))
	require.NoError(t, err)
	return ri, rec
}

func TestNew(t *testing.T) {
	t.Run("builds authorization url", func(t *testing.T) {
		ri, _ := newTestInterceptor(t)

		expected, err := BuildAuthorizationURL(testConfig())
		require.NoError(t, err)
		assert.Equal(t, expected, ri.AuthorizationURL())
		assert.NotEmpty(t, ri.ID())
		assert.False(t, ri.Emitted())
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthorizationEndpoint = "://missing-scheme"

		ri, err := New(cfg, func(string) {})
		assert.Nil(t, ri)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})

	t.Run("each attempt has its own id", func(t *testing.T) {
		first, _ := newTestInterceptor(t)
		second, _ := newTestInterceptor(t)
		assert.NotEqual(t, first.ID(), second.ID())
	})

	t.Run("configuration is copied", func(t *testing.T) {
		cfg := testConfig()
		ri, err := New(cfg, nil)
		require.NoError(t, err)

		cfg.RedirectURI = "http://localhost:9999"
		cfg.SuppressedPrefixes[0] = "https://idp.example.com/"
		cfg.ExtraParams["groups_info"] = "1"

		assert.Equal(t, testRedirectURI, ri.Config().RedirectURI)
		assert.Equal(t, testProfilePage, ri.Config().SuppressedPrefixes[0])
		assert.Equal(t, "0", ri.Config().ExtraParams["groups_info"])
		assert.Equal(t, Allow, ri.Navigate(NavigationRequest{TargetURL: "https://idp.example.com/login"}))
	})
}

func TestNavigate_TokenEmittedOnceThenDismissed(t *testing.T) {
	ri, rec := newTestInterceptor(t)

	decision := ri.Navigate(NavigationRequest{TargetURL: "http://localhost:3000?access_token=xyz&token_type=bearer"})
	assert.Equal(t, Deny, decision)
	assert.Equal(t, []string{"xyz"}, rec.tokens)
	assert.Equal(t, []string{"token", "dismiss"}, rec.events)
	assert.True(t, ri.Emitted())

	decision = ri.Navigate(NavigationRequest{TargetURL: "http://localhost:3000?access_token=other"})
	assert.Equal(t, Deny, decision)
	assert.Equal(t, []string{"xyz"}, rec.tokens, "token must be emitted at most once per attempt")
	assert.Equal(t, []string{"token", "dismiss"}, rec.events, "dismissal must be requested once")
}

func TestNavigate_NoCallbacks(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected Decision
	}{
		{"redirect with error", "http://localhost:3000?error=access_denied", Deny},
		{"redirect with empty token", "http://localhost:3000?access_token=", Deny},
		{"malformed redirect query", "http://localhost:3000?access_token=%G1", Deny},
		{"suppressed profile page", testProfilePage, Deny},
		{"provider login page", "https://idp.example.com/login", Allow},
		{"provider asset", "https://cdn.idp.example.com/app.js", Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ri, rec := newTestInterceptor(t)

			assert.Equal(t, tt.expected, ri.Navigate(NavigationRequest{TargetURL: tt.target}))
			assert.Empty(t, rec.tokens)
			assert.Empty(t, rec.events)
			assert.False(t, ri.Emitted())
		})
	}
}

func TestNavigate_EventSequence(t *testing.T) {
	ri, rec := newTestInterceptor(t)

	steps := []struct {
		target   string
		expected Decision
	}{
		{ri.AuthorizationURL(), Allow},
		{"https://idp.example.com/login", Allow},
		{testProfilePage, Deny},
		{"http://localhost:3000?error=temporarily_unavailable", Deny},
		{"http://localhost:3000?access_token=final", Deny},
		{"https://idp.example.com/logout", Allow},
	}

	for _, step := range steps {
		assert.Equal(t, step.expected, ri.Navigate(NavigationRequest{TargetURL: step.target}), step.target)
	}

	assert.Equal(t, []string{"final"}, rec.tokens)
	assert.Equal(t, []string{"token", "dismiss"}, rec.events)
}

func TestNavigate_WithoutPresenter(t *testing.T) {
	var got string
	ri, err := New(testConfig(), func(token string) { got = token })
	require.NoError(t, err)

	assert.Equal(t, Deny, ri.Navigate(NavigationRequest{TargetURL: "http://localhost:3000?access_token=xyz"}))
	assert.Equal(t, "xyz", got)
}

func TestNavigate_NilTokenCallback(t *testing.T) {
	dismissed := 0
	ri, err := New(testConfig(), nil, WithPresenter(PresenterFunc(func() { dismissed++ })))
	require.NoError(t, err)

	assert.Equal(t, Deny, ri.Navigate(NavigationRequest{TargetURL: "http://localhost:3000?access_token=xyz"}))
	assert.Equal(t, 1, dismissed)
	assert.True(t, ri.Emitted())
}

func TestNavigate_ConcurrentRedirects(t *testing.T) {
	ri, rec := newTestInterceptor(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, Deny, ri.Navigate(NavigationRequest{TargetURL: "http://localhost:3000?access_token=race"}))
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"race"}, rec.tokens)
	assert.Equal(t, []string{"token", "dismiss"}, rec.events)
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "token value masked",
			raw:  "http://localhost:3000?access_token=xyz&token_type=bearer",
			want: "http://localhost:3000?access_token=REDACTED&token_type=bearer",
		},
		{
			name: "no query",
			raw:  "https://idp.example.com/login",
			want: "https://idp.example.com/login",
		},
		{
			name: "unparseable url",
			raw:  "http://[::1",
			want: "<unparseable url>",
		},
		{
			name: "malformed escape elsewhere in query",
			raw:  "http://localhost:3000?access_token=SECRETTOKEN&x=%zz",
			want: "http://localhost:3000?access_token=REDACTED&x=%zz",
		},
		{
			name: "semicolon in query",
			raw:  "http://localhost:3000?access_token=SECRET2&s=a;b",
			want: "http://localhost:3000?access_token=REDACTED&s=a;b",
		},
		{
			name: "fragment dropped",
			raw:  "http://localhost:3000#access_token=SECRET3",
			want: "http://localhost:3000",
		},
		{
			name: "escaped parameter name masked",
			raw:  "http://localhost:3000?access%5Ftoken=SECRET4",
			want: "http://localhost:3000?access%5Ftoken=REDACTED",
		},
		{
			name: "unescapable parameter name masked",
			raw:  "http://localhost:3000?%zz=SECRET5",
			want: "http://localhost:3000?%zz=REDACTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactURL(tt.raw))
		})
	}
}

func TestNavigate_NeverLogsToken(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelError, io.Discard) })

	ri, rec := newTestInterceptor(t)

	targets := []string{
		"http://localhost:3000?access_token=SECRETTOKEN&x=%zz",
		"http://localhost:3000#access_token=SECRET3",
		"http://localhost:3000?access_token=SECRET2&s=a;b",
		"http://localhost:3000?access_token=SECRET6",
	}
	for _, target := range targets {
		assert.Equal(t, Deny, ri.Navigate(NavigationRequest{TargetURL: target}))
	}

	assert.Equal(t, []string{"SECRET2"}, rec.tokens)
	out := buf.String()
	assert.NotEmpty(t, out)
	for _, secret := range []string{"SECRETTOKEN", "SECRET2", "SECRET3", "SECRET6"} {
		assert.NotContains(t, out, secret)
	}
}
