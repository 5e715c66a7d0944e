package types

// Wire paths of the relay API.
const (
	PathLink  = "/session/link"
	PathRelay = "/session/relay"
)

// LinkRequest is the body of POST /session/link.
type LinkRequest struct {
	SessionID     SessionID `json:"sessionId"`
	AppIdentifier string    `json:"appIdentifier"`
}

// RelayRequest is the body of POST /session/relay.
type RelayRequest struct {
	SessionID SessionID   `json:"sessionId"`
	Type      PayloadKind `json:"type"`
	Payload   Payload     `json:"payload"`
}

// ErrorResponse is the failure body returned by the relay.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RemoteStatus is the counterpart's view of a session.
type RemoteStatus string

const (
	RemotePending RemoteStatus = "pending"
	RemoteLinked  RemoteStatus = "linked"
	RemoteRelayed RemoteStatus = "relayed"
)

// CreateSessionResponse is returned by POST /session.
type CreateSessionResponse struct {
	SessionID SessionID `json:"sessionId"`
}

// SessionView is returned by GET /session/{id} to the waiting desktop.
type SessionView struct {
	SessionID     SessionID    `json:"sessionId"`
	Status        RemoteStatus `json:"status"`
	AppIdentifier string       `json:"appIdentifier,omitempty"`
	Type          PayloadKind  `json:"type,omitempty"`
	Payload       Payload      `json:"payload,omitempty"`
	CreatedUTC    int64        `json:"createdUtc"`
	UpdatedUTC    int64        `json:"updatedUtc"`
}
