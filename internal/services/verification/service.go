package verification

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"cardlink/internal/domain"
	"cardlink/internal/state"
)

const msgEmptyCode = "Error: the verification code is empty."

// Service is the verification code intake.
//
// The intake is armed when a session links (the code listener starts) and
// marked used after the first accepted code. Acceptance itself is gated only
// by the relay being Sent: a later code replaces the stored one.
type Service struct {
	state  *state.Holder
	status domain.StatusPublisher
	log    zerolog.Logger

	mu    sync.Mutex
	armed bool
	used  bool
}

func New(h *state.Holder, status domain.StatusPublisher, log zerolog.Logger) *Service {
	return &Service{
		state:  h,
		status: status,
		log:    log.With().Str("component", "verification").Logger(),
	}
}

// Arm starts a nominal intake; it is wired to the session's link listener.
func (s *Service) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	s.used = false
	s.log.Debug().Msg("verification intake armed")
}

// Armed reports whether a code is still expected from the intake source.
func (s *Service) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed && !s.used
}

// SubmitCode stores code exactly as given and publishes it for
// transcription. A blank code is refused.
func (s *Service) SubmitCode(code domain.VerificationCode) error {
	if strings.TrimSpace(code.String()) == "" {
		s.status.Publish(msgEmptyCode)
		return domain.ErrEmptyCode
	}
	if err := s.state.AcceptCode(code); err != nil {
		s.log.Warn().Err(err).Msg("verification code rejected")
		s.status.Publish("Error: " + err.Error())
		return err
	}

	s.mu.Lock()
	s.used = true
	s.mu.Unlock()

	s.log.Info().Int("length", len(code)).Msg("verification code accepted")
	s.status.Publish(fmt.Sprintf(
		"Verification code detected: %s. Enter it on the computer's payment page.", code))
	return nil
}

func (s *Service) Code() (domain.VerificationCode, bool) {
	code := s.state.Snapshot().Code
	return code, code != ""
}

// Compile-time assertion that Service implements domain.VerificationService.
var _ domain.VerificationService = (*Service)(nil)
