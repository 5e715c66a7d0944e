package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlink/internal/domain"
	"cardlink/internal/state"
)

func linked(t *testing.T, id domain.SessionID) *state.Holder {
	t.Helper()
	h := state.New()
	require.NoError(t, h.BeginLinking())
	require.NoError(t, h.LinkSucceeded(id))
	return h
}

func TestHolder_Initial(t *testing.T) {
	snap := state.New().Snapshot()
	assert.Equal(t, domain.SessionUnlinked, snap.Session)
	assert.Equal(t, domain.RelayNotArmed, snap.Relay)
	assert.Empty(t, snap.SessionID)
	assert.Empty(t, snap.Code)
}

func TestHolder_LinkLifecycle(t *testing.T) {
	h := linked(t, "ABC123")
	snap := h.Snapshot()
	assert.Equal(t, domain.SessionLinked, snap.Session)
	assert.Equal(t, domain.SessionID("ABC123"), snap.SessionID)
}

func TestHolder_BeginLinking_RejectedUnlessUnlinked(t *testing.T) {
	h := state.New()
	require.NoError(t, h.BeginLinking())

	err := h.BeginLinking()
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.SessionLinking, h.Snapshot().Session)

	require.NoError(t, h.LinkSucceeded("ABC123"))
	err = h.BeginLinking()
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.SessionLinked, h.Snapshot().Session)
	assert.Equal(t, domain.SessionID("ABC123"), h.Snapshot().SessionID)
}

func TestHolder_LinkFailed_ReturnsToUnlinked(t *testing.T) {
	h := state.New()
	require.NoError(t, h.BeginLinking())
	require.NoError(t, h.LinkFailed())
	assert.Equal(t, domain.SessionUnlinked, h.Snapshot().Session)
	assert.Empty(t, h.Snapshot().SessionID)

	require.NoError(t, h.BeginLinking(), "retry after failure")
}

func TestHolder_LinkFailed_OnlyFromLinking(t *testing.T) {
	h := state.New()
	assert.ErrorIs(t, h.LinkFailed(), domain.ErrInvalidState)
	assert.ErrorIs(t, h.LinkSucceeded("x"), domain.ErrInvalidState)
}

func TestHolder_BeginSending_RequiresLinked(t *testing.T) {
	h := state.New()
	_, err := h.BeginSending()
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.RelayNotArmed, h.Snapshot().Relay)

	require.NoError(t, h.BeginLinking())
	_, err = h.BeginSending()
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.RelayNotArmed, h.Snapshot().Relay)
}

func TestHolder_SendGuard(t *testing.T) {
	h := linked(t, "ABC123")

	id, err := h.BeginSending()
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("ABC123"), id)

	_, err = h.BeginSending()
	assert.ErrorIs(t, err, domain.ErrInvalidState, "second send while one is in flight")

	require.NoError(t, h.SendFailed())
	_, err = h.BeginSending()
	require.NoError(t, err, "retry after failure")

	require.NoError(t, h.SendSucceeded())
	_, err = h.BeginSending()
	require.NoError(t, err, "resend after success")
}

func TestHolder_SendOutcomes_OnlyFromSending(t *testing.T) {
	h := linked(t, "ABC123")
	assert.ErrorIs(t, h.SendSucceeded(), domain.ErrInvalidState)
	assert.ErrorIs(t, h.SendFailed(), domain.ErrInvalidState)
}

func TestHolder_AcceptCode(t *testing.T) {
	h := linked(t, "ABC123")
	assert.ErrorIs(t, h.AcceptCode("111111"), domain.ErrInvalidState)

	_, err := h.BeginSending()
	require.NoError(t, err)
	assert.ErrorIs(t, h.AcceptCode("111111"), domain.ErrInvalidState, "still sending")

	require.NoError(t, h.SendSucceeded())
	require.NoError(t, h.AcceptCode("111111"))
	require.NoError(t, h.AcceptCode("222222"))
	assert.Equal(t, domain.VerificationCode("222222"), h.Snapshot().Code)
}

func TestHolder_ConcurrentBeginSending_SingleWinner(t *testing.T) {
	h := linked(t, "ABC123")

	const n = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.BeginSending(); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
