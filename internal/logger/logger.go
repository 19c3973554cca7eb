// Package logger provides leveled logging with debug, info, warn, and error
// levels and a choice of plain text or JSON line output. Text output goes
// through the standard log package; JSON output emits one object per line
// with time, level, and message fields.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are voluminous and usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority; a healthy deployment should not produce any.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel maps a config string to a Level, defaulting to Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging in text or JSON form.
type Logger struct {
	level Level
	json  bool

	mu     sync.Mutex
	out    io.Writer
	logger *log.Logger // text mode only
}

// jsonEntry is the wire shape of one JSON-format log line.
type jsonEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

var defaultLogger *Logger

// Init initializes the default logger with the specified level and format
// ("text" or "json").
func Init(level string, format string) {
	l := &Logger{
		level: ParseLevel(level),
		json:  strings.ToLower(format) == "json",
		out:   os.Stderr,
	}
	if !l.json {
		l.logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}
	defaultLogger = l
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out = w
	if defaultLogger.logger != nil {
		defaultLogger.logger.SetOutput(w)
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	if l.json {
		line, err := json.Marshal(jsonEntry{
			Time:    time.Now().UTC().Format(time.RFC3339Nano),
			Level:   level.String(),
			Message: msg,
		})
		if err != nil {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		fmt.Fprintln(l.out, string(line))
		return
	}

	_ = l.logger.Output(3, fmt.Sprintf("[%s] %s", strings.ToUpper(level.String()), msg))
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.log(DebugLevel, format, args...)
	}
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.log(InfoLevel, format, args...)
	}
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.log(WarnLevel, format, args...)
	}
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.log(ErrorLevel, format, args...)
	}
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.log(ErrorLevel, format, args...)
	} else {
		log.Printf("[FATAL] "+format, args...)
	}
	os.Exit(1)
}
