package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-picture details inside components
	// (order counts, frame store transitions, synthesized fields).
	LevelDebug LogLevel = iota
	// LevelInfo is for session-level progress from the driver.
	LevelInfo
	// LevelWarn is for conditions that do not stop the session,
	// such as a clamped source index or an ignored option.
	LevelWarn
	// LevelError is for fatal conditions reported before the session aborts.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging with translatable message keys.
type Logger interface {
	// Debug logs a per-picture message. msg is a lexicon key and may carry
	// format verbs for args.
	Debug(msg string, args ...interface{})

	// Info logs session progress.
	Info(msg string, args ...interface{})

	// Warn logs a condition the session continues past.
	Warn(msg string, args ...interface{})

	// Error logs a fatal condition.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name, e.g. "sequencer" or "tracker".
	WithComponent(component string) Logger
}
