// Package status holds the single current human-readable status message.
//
// Publishing overwrites the previous message (last write wins) and forwards
// it to every registered sink. There is no queue and no history; a display
// that misses a message only ever needs the latest one.
package status

import (
	"sync"

	"github.com/rs/zerolog"

	"cardlink/internal/domain"
)

// Initial is published when a session starts.
const Initial = "Scan the QR code on the computer to begin."

// Sink receives every published message, e.g. a terminal display.
type Sink func(message string)

// Notifier is the single-slot status publish point.
type Notifier struct {
	mu      sync.RWMutex
	current string
	sinks   []Sink
	log     zerolog.Logger
}

func NewNotifier(log zerolog.Logger, sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks, log: log}
}

// Publish replaces the current message and forwards it to the sinks.
func (n *Notifier) Publish(message string) {
	n.mu.Lock()
	n.current = message
	sinks := n.sinks
	n.mu.Unlock()

	n.log.Debug().Str("status", message).Msg("status updated")
	for _, s := range sinks {
		s(message)
	}
}

func (n *Notifier) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Compile-time assertion that Notifier implements domain.StatusPublisher.
var _ domain.StatusPublisher = (*Notifier)(nil)
