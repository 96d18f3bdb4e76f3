// Package surface provides the browser surfaces that feed navigations to an
// interceptor.NavigationPolicy.
//
// An embedded webview reports navigations directly. Go hosts that have no
// webview use one of the surfaces here instead:
//
//   - Loopback listens on the redirect URI's host and port while the system
//     browser (see OpenBrowser) shows the provider's pages. Requests reaching
//     the listener are the browser's navigations to the redirect host.
//   - Headless follows HTTP redirects with an http.Client and consults the
//     policy before every hop.
//
// Both surfaces only report navigations and act on the decision; they never
// inspect tokens themselves.
package surface
