// Package zap provides a Zap implementation of the editorkit Logger interface.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/logger/zap"
//	)
//
//	// Using default production logger
//	driver := zap.NewDriver()
//
//	// Using custom zap logger
//	zapLogger, _ := zap.NewProduction()
//	driver := zap.NewDriverWithLogger(zapLogger)
//
//	reg := registry.New(registry.WithLogger(driver))
package zap

import (
	"os"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Driver implements contracts.Logger using Zap
type Driver struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// Config for creating a new Zap driver
type Config struct {
	Level         string         `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format        string         `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Output        string         `mapstructure:"output"` // stdout, stderr, or file path
	AddCaller     bool           `mapstructure:"add_caller"`
	AddStacktrace bool           `mapstructure:"add_stacktrace"`
	DefaultFields map[string]any `mapstructure:"fields"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Level:         contracts.LogLevelInfo,
		Format:        contracts.LogFormatJSON,
		Output:        "stderr",
		AddCaller:     true,
		AddStacktrace: true,
	}
}

// NewDriver creates a new Zap logger driver with default production settings
func NewDriver() *Driver {
	return NewDriverWithConfig(DefaultConfig())
}

// NewNopDriver creates a driver that discards everything
func NewNopDriver() *Driver {
	return NewDriverWithLogger(zap.NewNop())
}

// NewDriverWithConfig creates a new Zap logger driver with custom config
func NewDriverWithConfig(cfg *Config) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == contracts.LogFormatConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, openOutput(cfg.Output), parseLevel(cfg.Level))

	opts := []zap.Option{}
	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if cfg.AddStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if len(cfg.DefaultFields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.DefaultFields))
		for k, v := range cfg.DefaultFields {
			fields = append(fields, zap.Any(k, v))
		}
		opts = append(opts, zap.Fields(fields...))
	}

	return NewDriverWithLogger(zap.New(core, opts...))
}

// NewDriverWithLogger creates a driver from an existing Zap logger
func NewDriverWithLogger(logger *zap.Logger) *Driver {
	return &Driver{
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case contracts.LogLevelDebug:
		return zapcore.DebugLevel
	case contracts.LogLevelWarn:
		return zapcore.WarnLevel
	case contracts.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// openOutput falls back to stderr when the file cannot be opened
func openOutput(output string) zapcore.WriteSyncer {
	switch output {
	case "stdout":
		return zapcore.AddSync(os.Stdout)
	case "stderr", "":
		return zapcore.AddSync(os.Stderr)
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zapcore.AddSync(os.Stderr)
	}
	return zapcore.AddSync(file)
}

// Logger returns the underlying Zap logger
func (d *Driver) Logger() *zap.Logger {
	return d.logger
}

// Debug logs a debug message
func (d *Driver) Debug(msg string, fields ...any) {
	d.sugar.Debugw(msg, fields...)
}

// Info logs an info message
func (d *Driver) Info(msg string, fields ...any) {
	d.sugar.Infow(msg, fields...)
}

// Warn logs a warning message
func (d *Driver) Warn(msg string, fields ...any) {
	d.sugar.Warnw(msg, fields...)
}

// Error logs an error message
func (d *Driver) Error(msg string, fields ...any) {
	d.sugar.Errorw(msg, fields...)
}

// WithFields returns a logger with additional fields
func (d *Driver) WithFields(fields ...any) contracts.Logger {
	sugar := d.sugar.With(fields...)
	return &Driver{
		logger: sugar.Desugar(),
		sugar:  sugar,
	}
}

// WithError returns a logger with error field
func (d *Driver) WithError(err error) contracts.Logger {
	if err == nil {
		return d
	}
	return d.WithFields("error", err.Error())
}

// Named returns a named sub-logger
func (d *Driver) Named(name string) contracts.Logger {
	named := d.logger.Named(name)
	return &Driver{
		logger: named,
		sugar:  named.Sugar(),
	}
}

// Sync flushes any buffered log entries
func (d *Driver) Sync() error {
	return d.logger.Sync()
}

// Ensure Driver implements contracts.Logger
var _ contracts.Logger = (*Driver)(nil)
