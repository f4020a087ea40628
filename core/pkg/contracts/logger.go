package contracts

// Logger adalah generic interface untuk logging.
// Implementasi bisa zap, zerolog, slog, dll. Fields are alternating key/value pairs.
type Logger interface {
	// Log levels
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With fields - untuk menambahkan fields ke semua log berikutnya
	WithFields(fields ...any) Logger

	// With error - untuk attach error ke log
	WithError(err error) Logger

	// Named logger - untuk sub-logger dengan prefix
	Named(name string) Logger

	// Sync flushes any buffered log entries
	Sync() error
}

// LogLevel constants
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// LogFormat constants
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// NopLogger returns a Logger that discards everything
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) WithFields(...any) Logger { return n }
func (n nopLogger) WithError(error) Logger { return n }
func (n nopLogger) Named(string) Logger { return n }
func (nopLogger) Sync() error { return nil }
