// Package main runs the development relay the cardlink handheld talks to. It
// stands in for the checkout backend: the desktop creates a session and shows
// its id as a QR code, the handheld links to it and relays card details, and
// the desktop polls until the details arrive.
//
// HTTP API
//
//	POST /session
//	    Create a pending session. Returns {"sessionId": "..."}.
//
//	GET /session/{id}
//	    Return the session's status (pending, linked, relayed), the linking
//	    app identifier and, once relayed, the payload.
//
//	POST /session/link {"sessionId", "appIdentifier"}
//	    Link a pending session. 404 if unknown, 409 if already linked.
//
//	POST /session/relay {"sessionId", "type", "payload"}
//	    Store a card_data payload on a linked session. 400 for another type
//	    or an empty payload, 409 if the session is not linked.
//
//	GET /health, GET /metrics
//
// Behaviour
//
//   - Sessions are kept in SQLite (server.db_path) and survive restarts.
//   - Payloads are sealed at rest with a key derived from server.seal_secret.
//   - Non-2xx responses carry {"error": "..."}.
//   - The default listen address is :3000.
package main
