// Package interceptor implements the redirect interception that completes an
// OAuth 2.0 implicit-grant flow inside a browser surface.
//
// A browser surface (an embedded webview, the system browser behind a
// loopback listener, or a headless HTTP client) reports every navigation it is
// about to perform. The RedirectInterceptor classifies each one:
//
//   - URLs starting with a suppressed prefix are denied silently.
//   - URLs starting with the redirect URI are denied; a non-empty access_token
//     query parameter is handed to the host exactly once per attempt, after
//     which the host is asked to dismiss the surface.
//   - Everything else is allowed.
//
// The classification itself is the pure function Decide. RedirectInterceptor
// adds the side-effect dispatch and the at-most-once emission guard.
//
// # Usage
//
//	cfg := interceptor.NewAuthConfig(
//	    "https://idp.example.com/authorize",
//	    "abc123",
//	    "http://localhost:3000",
//	)
//
//	ri, err := interceptor.New(cfg, func(token string) {
//	    // hand the token to the application
//	}, interceptor.WithPresenter(surface))
//	if err != nil {
//	    // invalid configuration, do not open a browser surface
//	}
//
//	// load ri.AuthorizationURL() in the surface, then for every navigation:
//	decision := ri.Navigate(interceptor.NavigationRequest{TargetURL: target})
package interceptor
