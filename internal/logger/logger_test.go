package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := New()
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWithOptions(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewWithOptions(Options{Level: "DEBUG", Format: FormatJSON, Writer: buf})
		require.NoError(t, err)

		log.Debug().Str("file", "statement.pdf").Msg("parsing")

		assert.Contains(t, buf.String(), `"file":"statement.pdf"`)
		assert.Contains(t, buf.String(), `"level":"debug"`)
	})

	t.Run("level filters events", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewWithOptions(Options{Level: "warn", Format: FormatJSON, Writer: buf})
		require.NoError(t, err)

		log.Info().Msg("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("console", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewWithOptions(Options{Writer: buf})
		require.NoError(t, err)

		log.Info().Msg("human readable")
		assert.Contains(t, buf.String(), "human readable")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewWithOptions(Options{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewWithOptions(Options{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestWithRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))
	ctx = WithRequestID(ctx, "req-42")

	log := FromContext(ctx)
	log.Info().Msg("handled")

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"session_id": "abc",
		"state":      "loading",
	})

	log.Info().Msg("test message")

	out := buf.String()
	assert.Contains(t, out, `"session_id":"abc"`)
	assert.Contains(t, out, `"state":"loading"`)
}
