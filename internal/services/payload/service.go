package payload

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cardlink/internal/domain"
	"cardlink/internal/state"
)

// Status texts published by the relay flow.
const (
	msgSending      = "Sending card details..."
	msgSent         = "Card details sent. Waiting for the verification code SMS..."
	msgSendNetwork  = "Network error while sending card details."
	msgCannotSend   = "Error: cannot send card details."
	msgEmptyPayload = "Error: the card details are empty."
)

// Service is the relay controller.
//
// A send proceeds as follows:
//   - Reject any kind but card_data and an empty payload.
//   - Move the relay to Sending; this fails unless the session is Linked and
//     no other send is in flight.
//   - Send one relay request carrying the current session id, kind and
//     payload.
//   - Move to Sent on success, or to SendFailed on failure so the same
//     action can be invoked again.
type Service struct {
	state     *state.Holder
	transport domain.Transport
	status    domain.StatusPublisher
	log       zerolog.Logger
}

func New(
	h *state.Holder,
	transport domain.Transport,
	status domain.StatusPublisher,
	log zerolog.Logger,
) *Service {
	return &Service{
		state:     h,
		transport: transport,
		status:    status,
		log:       log.With().Str("component", "payload").Logger(),
	}
}

// SendPayload relays payload under the linked session. It blocks until the
// exchange settles.
func (s *Service) SendPayload(ctx context.Context, kind domain.PayloadKind, payload domain.Payload) error {
	if kind != domain.PayloadKindCardData {
		s.status.Publish(msgCannotSend)
		return errors.Wrapf(domain.ErrUnsupportedKind, "kind %q", kind)
	}
	if payload.Empty() {
		s.status.Publish(msgEmptyPayload)
		return domain.ErrEmptyPayload
	}

	id, err := s.state.BeginSending()
	if err != nil {
		s.log.Warn().Err(err).Msg("send rejected")
		s.status.Publish(msgCannotSend)
		return err
	}
	s.log.Debug().Str("kind", kind.String()).Int("fields", len(payload)).Msg("relaying payload")
	s.status.Publish(msgSending)

	_, err = s.transport.Exchange(ctx, domain.PathRelay, domain.RelayRequest{
		SessionID: id,
		Type:      kind,
		Payload:   payload,
	})
	if err != nil {
		if serr := s.state.SendFailed(); serr != nil {
			s.log.Error().Err(serr).Msg("send failure transition")
		}
		s.log.Warn().Err(err).Msg("relay failed")
		s.status.Publish(sendFailureText(err))
		return err
	}

	if err := s.state.SendSucceeded(); err != nil {
		s.log.Error().Err(err).Msg("send success transition")
		return err
	}
	s.log.Info().Str("kind", kind.String()).Msg("payload relayed")
	s.status.Publish(msgSent)
	return nil
}

// SendCard relays card as a card_data payload.
func (s *Service) SendCard(ctx context.Context, card domain.CardData) error {
	return s.SendPayload(ctx, domain.PayloadKindCardData, card.Payload())
}

func sendFailureText(err error) string {
	if msg, ok := domain.ServerMessage(err); ok {
		return fmt.Sprintf("Sending card details failed: %s", msg)
	}
	return msgSendNetwork
}

// Compile-time assertion that Service implements domain.PayloadService.
var _ domain.PayloadService = (*Service)(nil)
