// Package store provides file-based persistence for the handheld.
//
// It serialises data as JSON on disk, writing through a temp file and an
// atomic rename. The package currently holds the card details file read by
// the relay commands (CardFileStore).
package store
