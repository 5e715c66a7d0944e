package interfaces

import (
	"context"

	domaintypes "cardlink/internal/domain/types"
)

// SessionService links the handheld to a scanned session.
type SessionService interface {
	BeginLink(ctx context.Context, id domaintypes.SessionID) error
	HandleScan(ctx context.Context, decoded string) error
	HandleScanFailure(err error)
}

// PayloadService relays a payload under the linked session.
type PayloadService interface {
	SendPayload(
		ctx context.Context,
		kind domaintypes.PayloadKind,
		payload domaintypes.Payload,
	) error
}

// VerificationService accepts the out-of-band verification code.
type VerificationService interface {
	Arm()
	Armed() bool
	SubmitCode(code domaintypes.VerificationCode) error
	Code() (domaintypes.VerificationCode, bool)
}

// StatusPublisher is the single-slot status text sink.
type StatusPublisher interface {
	Publish(message string)
	Current() string
}
