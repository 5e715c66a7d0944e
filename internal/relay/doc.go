// Package relay provides the HTTP implementation of the domain.Transport
// interface used by cardlink.
//
// The relay is the server the desktop counterpart waits on. The handheld
// reaches it with two JSON POST exchanges:
//   - /session/link registers a scanned session id together with the app
//     identifier.
//   - /session/relay delivers the card payload under the linked session.
//
// Every exchange carries a context for cancellation and deadlines and an
// X-Request-ID header for correlation with the server's access log.
// Non-2xx statuses become ServerRejected errors carrying the server's error
// text; connectivity failures become NetworkFailure errors. Nothing is
// retried here.
package relay
