package status_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"cardlink/internal/status"
)

func TestNotifier_LastWriteWins(t *testing.T) {
	n := status.NewNotifier(zerolog.Nop())
	assert.Empty(t, n.Current())

	n.Publish("first")
	n.Publish("second")
	assert.Equal(t, "second", n.Current())
}

func TestNotifier_ForwardsToSinks(t *testing.T) {
	var a, b []string
	n := status.NewNotifier(zerolog.Nop(),
		func(m string) { a = append(a, m) },
		func(m string) { b = append(b, m) },
	)

	n.Publish(status.Initial)
	n.Publish("Linking to ABC123...")

	want := []string{status.Initial, "Linking to ABC123..."}
	assert.Equal(t, want, a)
	assert.Equal(t, want, b)
}
