package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*logrus.Entry
}

// Options controls formatter, level and the optional rotating log file
type Options struct {
	Environment string // "" or "local" selects the console formatter
	Level       string
	File        string
	FileMaxSize int // megabytes
	FileMaxAge  int // days
}

func New(opts Options) *Logger {
	base := logrus.New()

	// Local env = pretty console; others = JSON
	if opts.Environment == "" || opts.Environment == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     true,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  withDefault(opts.FileMaxSize, 50),
			MaxAge:   withDefault(opts.FileMaxAge, 14),
			Compress: true,
		})
	}
	base.SetOutput(out)
	base.SetLevel(ParseLevel(opts.Level))

	return &Logger{Entry: logrus.NewEntry(base)}
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{Entry: logrus.NewEntry(base)}
}

// ParseLevel maps a config string to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// WithComponent tags every entry with the emitting component
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", name)}
}

// WithRequest attaches request metadata and returns an entry
func (l *Logger) WithRequest(r *http.Request) *logrus.Entry {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.New().String()
	}

	return l.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
