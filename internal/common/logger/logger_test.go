package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "capital"}).
		WithError(errors.New("boom"))

	log.Info("dispatched", map[string]interface{}{"tag": "capital", "cause": errors.New("inner")})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "capital", ctx["taskType"])
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "inner", ctx["cause"])
		assert.Equal(t, "capital", ctx["tag"])
	}
}

func TestNewWithOutput_InvalidPathFallsBackToNop(t *testing.T) {
	l := NewWithOutput("info", "json", "/nonexistent-dir/sub/log.txt")
	assert.NotNil(t, l)
	l.Info("not written")
}
