// Package crypto exposes the small set of primitives used by cardlink.
//
// Contents
//
//   - Authenticated sealing of relayed payloads at rest (Sealer), keyed by a
//     scrypt-derived key and bound to the session identifier
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short fingerprints of payloads for logging (Fingerprint)
//
// # Notes
//
// Payload values must never reach a log line; log Fingerprint output instead.
package crypto
