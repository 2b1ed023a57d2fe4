// Package server provides HTTP routing, middleware, OAuth handling, and
// read-only vault endpoints.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally, so handlers may register method-qualified
// wildcard patterns.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel. It
// only processes one callback to prevent replay attacks.
//
// When the user runs the auth command, a temporary HTTP server starts on the
// configured callback address, handles the redirect, and shuts down after
// receiving the token.
//
// # Vault Endpoints
//
// [VaultHandler] exposes the stored snapshot over JSON: users, playlists,
// saved tracks, ranked top listings (filterable by time_range), followed
// artists, tracks with audio features, and table counts. POST /api/sync
// triggers a full collection run when a collector is wired in.
package server
