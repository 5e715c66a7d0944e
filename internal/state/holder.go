// Package state holds the per-session linking, relay and verification state.
//
// A Holder is constructed once per session and shared by reference with the
// session, payload and verification services. Each service drives only its
// own transitions; every method checks and transitions under one lock so a
// guard can never be passed twice by racing callers. The lock is never held
// across network I/O.
package state

import (
	"sync"

	"github.com/pkg/errors"

	"cardlink/internal/domain"
)

// Holder owns SessionState, RelayState, the current SessionID and the
// VerificationCode of one session.
type Holder struct {
	mu        sync.Mutex
	session   domain.SessionState
	relay     domain.RelayState
	sessionID domain.SessionID
	code      domain.VerificationCode
}

func New() *Holder {
	return &Holder{session: domain.SessionUnlinked, relay: domain.RelayNotArmed}
}

func (h *Holder) Snapshot() domain.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return domain.Snapshot{
		Session:   h.session,
		Relay:     h.relay,
		SessionID: h.sessionID,
		Code:      h.code,
	}
}

// BeginLinking moves Unlinked -> Linking.
func (h *Holder) BeginLinking() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moveSession(domain.SessionLinking)
}

// LinkSucceeded moves Linking -> Linked and makes id current.
func (h *Holder) LinkSucceeded(id domain.SessionID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.moveSession(domain.SessionLinked); err != nil {
		return err
	}
	h.sessionID = id
	return nil
}

// LinkFailed moves Linking -> LinkFailed -> Unlinked so a new scan may retry.
func (h *Holder) LinkFailed() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.moveSession(domain.SessionLinkFailed); err != nil {
		return err
	}
	return h.moveSession(domain.SessionUnlinked)
}

// BeginSending moves the relay to Sending and returns the session id to send
// under. The session must be Linked and no send may be in flight.
func (h *Holder) BeginSending() (domain.SessionID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != domain.SessionLinked {
		return "", errors.Wrapf(domain.ErrInvalidState, "send: session is %s", h.session)
	}
	if err := h.moveRelay(domain.RelaySending); err != nil {
		return "", err
	}
	return h.sessionID, nil
}

func (h *Holder) SendSucceeded() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moveRelay(domain.RelaySent)
}

// SendFailed moves Sending -> SendFailed, which is re-armable.
func (h *Holder) SendFailed() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moveRelay(domain.RelaySendFailed)
}

// AcceptCode stores code; the relay must be Sent. A later code overwrites.
func (h *Holder) AcceptCode(code domain.VerificationCode) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.relay != domain.RelaySent {
		return errors.Wrapf(domain.ErrInvalidState, "verification code: relay is %s", h.relay)
	}
	h.code = code
	return nil
}

func (h *Holder) moveSession(next domain.SessionState) error {
	if !canTransitionSession(h.session, next) {
		return errors.Wrapf(domain.ErrInvalidState, "session: %s -> %s", h.session, next)
	}
	h.session = next
	return nil
}

func (h *Holder) moveRelay(next domain.RelayState) error {
	if !canTransitionRelay(h.relay, next) {
		return errors.Wrapf(domain.ErrInvalidState, "relay: %s -> %s", h.relay, next)
	}
	h.relay = next
	return nil
}

func canTransitionSession(current, next domain.SessionState) bool {
	switch current {
	case domain.SessionUnlinked:
		return next == domain.SessionLinking
	case domain.SessionLinking:
		return next == domain.SessionLinked || next == domain.SessionLinkFailed
	case domain.SessionLinkFailed:
		return next == domain.SessionUnlinked
	case domain.SessionLinked:
		// unlinking is not supported
		return false
	default:
		return false
	}
}

func canTransitionRelay(current, next domain.RelayState) bool {
	switch current {
	case domain.RelayNotArmed, domain.RelaySendFailed, domain.RelaySent:
		return next == domain.RelaySending
	case domain.RelaySending:
		return next == domain.RelaySent || next == domain.RelaySendFailed
	default:
		return false
	}
}
