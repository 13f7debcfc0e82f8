package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global sugared logger. Init or InitWithLevel must run
// before serving; the package helpers tolerate a nil logger so unit
// tests can skip setup.
var Log *zap.SugaredLogger

// Init initializes the global logger honoring CHATD_LOG_LEVEL and an
// optional CHATD_LOG_SINK ("file:/path/to/log").
func Init() {
	InitWithLevel("")
}

// InitWithLevel initializes the global logger with the provided level
// ("debug", "info", "warn", "error"). An empty level falls back to the
// CHATD_LOG_LEVEL environment variable, then to info.
func InitWithLevel(level string) {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(os.Getenv("CHATD_LOG_LEVEL")))
	}
	var zl zapcore.Level
	switch lvl {
	case "debug":
		zl = zapcore.DebugLevel
	case "warn", "warning":
		zl = zapcore.WarnLevel
	case "error":
		zl = zapcore.ErrorLevel
	default:
		zl = zapcore.InfoLevel
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(os.Stdout)
	if s := os.Getenv("CHATD_LOG_SINK"); strings.HasPrefix(s, "file:") {
		path := strings.TrimPrefix(s, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			sink = zapcore.AddSync(f)
		} else {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
		}
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zl)
	Log = zap.New(core).Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs with key/value pairs.
func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debugw(msg, args...)
}

// Info logs with key/value pairs.
func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Infow(msg, args...)
}

// Warn logs with key/value pairs.
func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warnw(msg, args...)
}

// Error logs with key/value pairs.
func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Errorw(msg, args...)
}
