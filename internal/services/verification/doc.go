// Package verification accepts the out-of-band verification code that the
// card issuer sends after a successful relay, and reveals it through the
// status notifier so it can be typed on the desktop's payment page.
package verification
