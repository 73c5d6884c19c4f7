// Package logger provides the shared diagnostic logger for viltkit.
// Human-facing output goes to each command's io.Writer; this logger carries
// debug diagnostics to stderr and is silenced by the --quiet flag.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	log   = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the production logger. Called once from the root command after
// flags are parsed.
func Init(debug bool) {
	mu.Lock()
	defer mu.Unlock()

	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	built, err := cfg.Build()
	if err != nil {
		// Keep the nop logger rather than failing CLI startup.
		return
	}
	log = built
}

// SetDebug adjusts the log level after Init.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// L returns the current logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Replace swaps the global logger, returning a restore func. Used by tests.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := log
	log = l
	mu.Unlock()
	return func() {
		mu.Lock()
		log = prev
		mu.Unlock()
	}
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	_ = L().Sync()
}
