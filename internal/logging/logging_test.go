package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardlink/internal/logging"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("chatty", &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
