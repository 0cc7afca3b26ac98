package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{AppName: "profile-hub", Environment: "production", Level: "debug", Out: &buf})

	l := Component(base, "auth")
	l.Info().Str("user_id", "u1").Msg("login")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "profile-hub", line["app"])
	assert.Equal(t, "auth", line["component"])
	assert.Equal(t, "login", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "chatty", Out: &buf})

	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
