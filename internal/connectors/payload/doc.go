// Package payload implements a client for the Payload CMS content backend.
//
// The client fetches the content inventory and individual records of every
// category the search index covers. It implements [driven.ContentBackend].
//
// # Architecture
//
//   - Client: typed endpoint calls, error classification and decoding
//   - loginTokenSource: exchanges the configured credentials for a JWT
//   - RateLimiter: proactive throttling with backoff on 429 responses
//
// # Authentication
//
// Payload issues a JWT from POST /users/login. The token and its expiry are
// cached by an [oauth2.ReuseTokenSource] and sent on every request as
// "Authorization: JWT <token>". A new login happens only once the cached
// token is about to expire.
//
// # Errors
//
// Non-2xx responses are returned as [*APIError]. 401 and 403 responses match
// [domain.ErrUnauthorized], 404 responses match [domain.ErrNotFound].
// Transport failures wrap [domain.ErrConnectivity].
package payload
