package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))

	L().Debug("captured")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}

	restore()
	L().Debug("dropped")
	if logs.Len() != 1 {
		t.Errorf("expected restored logger, got %d entries", logs.Len())
	}
}

func TestSetDebugTogglesLevel(t *testing.T) {
	Init(false)
	defer Replace(zap.NewNop())

	if level.Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled after Init(false)")
	}
	SetDebug(true)
	if !level.Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled after SetDebug(true)")
	}
	SetDebug(false)
	if level.Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled after SetDebug(false)")
	}
}

func TestSyncIsSafe(t *testing.T) {
	defer Replace(zap.NewNop())
	Sync()
}
