package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.With(String("component", "box")).Info("molecule added",
		Int("species", 1), Float64("density", 0.5), Bool("debug", true), Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "molecule added", entries[0].Message)
	assert.Equal(t, "box", ctx["component"])
	assert.EqualValues(t, 1, ctx["species"])
	assert.Equal(t, 0.5, ctx["density"])
	assert.Equal(t, true, ctx["debug"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := Wrap(zap.New(core))

	assert.False(t, l.Enabled(LevelDebug))
	assert.True(t, l.Enabled(LevelError))

	l.Log(LevelInfo, "dropped")
	l.Log(LevelError, "kept")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNop()
	assert.False(t, l.Enabled(LevelError))
	l.Error("nothing happens")
}
