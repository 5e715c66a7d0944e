package domain

import (
	interfaces "cardlink/internal/domain/interfaces"
	types "cardlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SessionID             = types.SessionID
	SessionState          = types.SessionState
	PayloadKind           = types.PayloadKind
	Payload               = types.Payload
	CardData              = types.CardData
	RelayState            = types.RelayState
	VerificationCode      = types.VerificationCode
	Snapshot              = types.Snapshot
	LinkRequest           = types.LinkRequest
	RelayRequest          = types.RelayRequest
	ErrorResponse         = types.ErrorResponse
	RemoteStatus          = types.RemoteStatus
	CreateSessionResponse = types.CreateSessionResponse
	SessionView           = types.SessionView
	SessionRecord         = types.SessionRecord
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport           = interfaces.Transport
	SessionService      = interfaces.SessionService
	PayloadService      = interfaces.PayloadService
	VerificationService = interfaces.VerificationService
	StatusPublisher     = interfaces.StatusPublisher
	CardStore           = interfaces.CardStore
	SessionRepository   = interfaces.SessionRepository
)

// State and kind constants re-exported for callers that only import domain.
const (
	SessionUnlinked   = types.SessionUnlinked
	SessionLinking    = types.SessionLinking
	SessionLinked     = types.SessionLinked
	SessionLinkFailed = types.SessionLinkFailed

	RelayNotArmed   = types.RelayNotArmed
	RelaySending    = types.RelaySending
	RelaySent       = types.RelaySent
	RelaySendFailed = types.RelaySendFailed

	PayloadKindCardData = types.PayloadKindCardData

	RemotePending = types.RemotePending
	RemoteLinked  = types.RemoteLinked
	RemoteRelayed = types.RemoteRelayed

	PathLink  = types.PathLink
	PathRelay = types.PathRelay
)

func PlaceholderCard() CardData { return types.PlaceholderCard() }
