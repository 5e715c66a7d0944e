package types

// SessionRecord is the relay server's stored session row. The payload is
// kept sealed; only the read path for the desktop opens it.
type SessionRecord struct {
	ID            SessionID
	Status        RemoteStatus
	AppIdentifier string
	Type          PayloadKind
	SealedPayload []byte
	CreatedUTC    int64
	UpdatedUTC    int64
}
