package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the process logger is built.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// Format is "console" or "json".
	Format string
	// Development adds stack traces on warnings and DPanic panics.
	Development bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: "json",
	}
}

// New builds a logger with the default options.
func New() (*zap.Logger, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions builds a stderr logger from opts. An unknown level falls
// back to info.
func NewWithOptions(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)

	if opts.Development {
		return zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.WarnLevel)), nil
	}
	return zap.New(core, zap.AddCaller()), nil
}
