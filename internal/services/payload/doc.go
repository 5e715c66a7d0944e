// Package payload relays captured card data under the linked session.
//
// It checks the payload kind, rejects a send while another is in flight,
// performs the relay exchange and leaves a failed send ready to be retried
// by the same user action.
package payload
