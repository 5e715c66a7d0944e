package types

// SessionID is the opaque token read from the desktop's QR code.
type SessionID string

func (id SessionID) String() string { return string(id) }

// Short returns at most n leading characters, for status text.
func (id SessionID) Short(n int) string {
	r := []rune(id)
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}

// SessionState is the linking lifecycle of the handheld client.
type SessionState int

const (
	SessionUnlinked SessionState = iota
	SessionLinking
	SessionLinked
	SessionLinkFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionUnlinked:
		return "unlinked"
	case SessionLinking:
		return "linking"
	case SessionLinked:
		return "linked"
	case SessionLinkFailed:
		return "link_failed"
	default:
		return "unknown"
	}
}
