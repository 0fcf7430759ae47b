// Package foodsense is the client-side session and authorization SDK for the
// FoodSense recognition/recommendation service.
//
// Session lifecycle:
//   - AuthStore owns the in-memory auth state and is the only writer of the
//     session Storage. It bootstraps from persisted state on startup
//     (Initialize), validates the stored token against GET /auth/me, and
//     settles either authenticated or anonymous. Login, Register, Logout and
//     UpdateUser are the only other mutations.
//   - Storage persists the bearer token and the user profile as a single
//     unit: readers observe both entries or neither. Backends cover
//     in-memory, JSON file, and sqlite via Bun.
//
// Request pipeline:
//   - Client wraps net/http with a transport that attaches the bearer token
//     read from Storage on every outbound call. A 401 on any authenticated
//     endpoint triggers a single session teardown and one redirect-to-login
//     command, no matter how many in-flight requests fail concurrently.
//
// Route guarding:
//   - RouteGuard is a pure decision function over the published auth state.
//     It waits while the bootstrap is unsettled, redirects anonymous users
//     to login (remembering the requested path), and sends non-admins away
//     from admin screens.
package foodsense
