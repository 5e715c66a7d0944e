// Package relayserver implements the development relay the handheld talks
// to. It stands in for the counterpart's backend:
//
//	POST /session           create a pending session, returns {sessionId}
//	GET  /session/{id}      the desktop's poll; opens the sealed payload
//	POST /session/link      handheld links to a pending session
//	POST /session/relay     handheld relays card data to a linked session
//	GET  /health            liveness and store check
//	GET  /metrics           Prometheus metrics
//
// Failures answer with a JSON body of the form {"error": "..."} so the
// handheld can surface the reason. Payloads are sealed at rest and never
// logged; log lines carry a fingerprint instead.
package relayserver
