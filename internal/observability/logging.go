// Package observability holds logging setup shared by the CLI commands.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger for CLI commands.
// It is a no-op until Init is called.
var CLILogger = zap.NewNop()

// Init builds the CLI logger at the given level, writing to stderr so
// structured output on stdout stays machine-parseable.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	CLILogger = logger
	return nil
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = CLILogger.Sync()
}
