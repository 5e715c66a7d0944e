// Package session links the handheld to a scanned desktop session.
//
// It validates the scanned identifier, guards against linking over an active
// or in-flight session, performs the link exchange with the relay, and
// announces a successful link to listeners (the relay controller becomes
// usable and the verification intake is armed).
package session
