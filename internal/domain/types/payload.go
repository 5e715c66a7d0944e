package types

// PayloadKind discriminates relay payloads on the wire ("type").
type PayloadKind string

// PayloadKindCardData is the only kind the relay accepts.
const PayloadKindCardData PayloadKind = "card_data"

func (k PayloadKind) String() string { return string(k) }

// Payload is the opaque set of named fields relayed to the counterpart.
type Payload map[string]string

// Empty reports whether the payload carries no non-empty field.
func (p Payload) Empty() bool {
	for _, v := range p {
		if v != "" {
			return false
		}
	}
	return true
}

// CardData is the fixed card schema captured on the handheld.
type CardData struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"` // MM/YY
	CVV    string `json:"cvv"`
	Name   string `json:"name,omitempty"`
}

// Payload flattens the card into relay fields; an empty name is omitted.
func (c CardData) Payload() Payload {
	p := Payload{
		"number": c.Number,
		"expiry": c.Expiry,
		"cvv":    c.CVV,
	}
	if c.Name != "" {
		p["name"] = c.Name
	}
	return p
}

// PlaceholderCard is the fake card relayed when no card file is supplied.
func PlaceholderCard() CardData {
	return CardData{
		Number: "6274111122223333",
		Expiry: "12/28",
		CVV:    "123",
		Name:   "MVP User Test",
	}
}

// RelayState tracks the send-payload exchange.
type RelayState int

const (
	RelayNotArmed RelayState = iota
	RelaySending
	RelaySent
	RelaySendFailed
)

func (s RelayState) String() string {
	switch s {
	case RelayNotArmed:
		return "not_armed"
	case RelaySending:
		return "sending"
	case RelaySent:
		return "sent"
	case RelaySendFailed:
		return "send_failed"
	default:
		return "unknown"
	}
}

// VerificationCode is the short out-of-band code shown for transcription.
type VerificationCode string

func (c VerificationCode) String() string { return string(c) }

// Snapshot is a read-only copy of the session's state.
type Snapshot struct {
	Session   SessionState
	Relay     RelayState
	SessionID SessionID
	Code      VerificationCode
}
