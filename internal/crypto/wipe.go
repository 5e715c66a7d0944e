package crypto

import "runtime"

// Wipe zeroes b in place. It is applied to derived keys and to plaintext
// payloads once they have been sealed or decoded.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
