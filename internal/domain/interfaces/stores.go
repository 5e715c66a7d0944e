package interfaces

import (
	"context"

	domaintypes "cardlink/internal/domain/types"
)

// CardStore loads the card captured on the handheld.
type CardStore interface {
	LoadCard() (domaintypes.CardData, error)
}

// SessionRepository persists the counterpart's sessions on the relay server.
type SessionRepository interface {
	CreateSession(ctx context.Context, id domaintypes.SessionID) (domaintypes.SessionRecord, error)
	GetSession(ctx context.Context, id domaintypes.SessionID) (domaintypes.SessionRecord, error)
	MarkLinked(ctx context.Context, id domaintypes.SessionID, appIdentifier string) error
	SaveRelay(
		ctx context.Context,
		id domaintypes.SessionID,
		kind domaintypes.PayloadKind,
		sealed []byte,
	) error
}
