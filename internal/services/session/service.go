package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"cardlink/internal/domain"
	"cardlink/internal/state"
)

// Number of session id characters shown while linking.
const shortIDLen = 6

// Status texts published by the linking flow.
const (
	msgLinked        = "Linked! Send the card details to continue."
	msgLinkNetwork   = "Network error while linking. Scan again."
	msgEmptyScan     = "Error: the scanned code is empty. Scan again."
	msgScannerFailed = "Could not start the scanner. Check camera permission."
)

// Service is the session state machine of the handheld.
//
// A link proceeds as follows:
//   - Reject an empty identifier or any state other than Unlinked.
//   - Move to Linking and send one link request carrying the identifier and
//     the app identifier.
//   - On success record the identifier, move to Linked and notify listeners.
//   - On failure move through LinkFailed back to Unlinked so a new scan can
//     retry, and publish the server's reason when it gave one.
type Service struct {
	state     *state.Holder
	transport domain.Transport
	status    domain.StatusPublisher
	appID     string
	log       zerolog.Logger

	mu       sync.Mutex
	onLinked []func(domain.SessionID)
}

// New constructs a Session Service over the shared state holder.
func New(
	h *state.Holder,
	transport domain.Transport,
	status domain.StatusPublisher,
	appID string,
	log zerolog.Logger,
) *Service {
	return &Service{
		state:     h,
		transport: transport,
		status:    status,
		appID:     appID,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// OnLinked registers fn to run after every successful link.
func (s *Service) OnLinked(fn func(domain.SessionID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLinked = append(s.onLinked, fn)
}

// BeginLink registers id with the relay. It blocks until the exchange
// settles and returns the rejection or transport error, if any.
func (s *Service) BeginLink(ctx context.Context, id domain.SessionID) error {
	if strings.TrimSpace(id.String()) == "" {
		s.status.Publish(msgEmptyScan)
		return domain.ErrEmptySessionID
	}
	if err := s.state.BeginLinking(); err != nil {
		s.log.Warn().Err(err).Msg("link rejected")
		s.status.Publish("Error: " + err.Error())
		return err
	}
	s.status.Publish(fmt.Sprintf("Linking to %s...", id.Short(shortIDLen)))

	_, err := s.transport.Exchange(ctx, domain.PathLink, domain.LinkRequest{
		SessionID:     id,
		AppIdentifier: s.appID,
	})
	if err != nil {
		if serr := s.state.LinkFailed(); serr != nil {
			s.log.Error().Err(serr).Msg("link failure transition")
		}
		s.log.Warn().Err(err).Str("session_id", id.Short(shortIDLen)).Msg("link failed")
		s.status.Publish(linkFailureText(err))
		return err
	}

	if err := s.state.LinkSucceeded(id); err != nil {
		s.log.Error().Err(err).Msg("link success transition")
		s.status.Publish("Error: " + err.Error())
		return err
	}
	s.log.Info().Str("session_id", id.Short(shortIDLen)).Msg("session linked")
	s.status.Publish(msgLinked)

	s.mu.Lock()
	listeners := append([]func(domain.SessionID){}, s.onLinked...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(id)
	}
	return nil
}

// HandleScan is the capture success callback: the decoded text is the
// session identifier.
func (s *Service) HandleScan(ctx context.Context, decoded string) error {
	return s.BeginLink(ctx, domain.SessionID(strings.TrimSpace(decoded)))
}

// HandleScanFailure is the capture failure callback.
func (s *Service) HandleScanFailure(err error) {
	s.log.Warn().Err(err).Msg("capture failed")
	s.status.Publish(msgScannerFailed)
}

func linkFailureText(err error) string {
	if msg, ok := domain.ServerMessage(err); ok {
		return fmt.Sprintf("Link failed: %s. Scan again.", msg)
	}
	return msgLinkNetwork
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
