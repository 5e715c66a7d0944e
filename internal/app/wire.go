package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"cardlink/internal/domain"
	"cardlink/internal/relay"
	payloadsvc "cardlink/internal/services/payload"
	sessionsvc "cardlink/internal/services/session"
	verificationsvc "cardlink/internal/services/verification"
	"cardlink/internal/state"
	"cardlink/internal/status"
	"cardlink/internal/store"
)

// Wire bundles the state, services and clients of one handheld session.
type Wire struct {
	State        *state.Holder
	Status       *status.Notifier
	Relay        domain.Transport
	Cards        domain.CardStore
	Sessions     *sessionsvc.Service
	Payload      *payloadsvc.Service
	Verification *verificationsvc.Service
	HTTP         *http.Client
}

// NewWire constructs the dependency graph from cfg and publishes the
// initial status.
func NewWire(cfg Config, log zerolog.Logger, sinks ...status.Sink) (*Wire, error) {
	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	holder := state.New()
	notifier := status.NewNotifier(log, sinks...)
	rc := relay.NewHTTP(cfg.RelayURL, httpClient, log)

	// High-level services
	sessionSvc := sessionsvc.New(holder, rc, notifier, cfg.AppIdentifier, log)
	payloadSvc := payloadsvc.New(holder, rc, notifier, log)
	verificationSvc := verificationsvc.New(holder, notifier, log)

	// The code listener starts once a link succeeds.
	sessionSvc.OnLinked(func(domain.SessionID) { verificationSvc.Arm() })

	notifier.Publish(status.Initial)

	return &Wire{
		State:        holder,
		Status:       notifier,
		Relay:        rc,
		Cards:        store.NewCardFileStore(cfg.CardFile),
		Sessions:     sessionSvc,
		Payload:      payloadSvc,
		Verification: verificationSvc,
		HTTP:         httpClient,
	}, nil
}
