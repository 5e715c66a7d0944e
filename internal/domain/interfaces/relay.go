package interfaces

import (
	"context"
	"encoding/json"
)

// Transport performs one JSON request/response round trip against the relay.
// Failed round trips are reported as *domain.TransportError; no retries are made.
type Transport interface {
	Exchange(ctx context.Context, path string, body any) (json.RawMessage, error)
}
