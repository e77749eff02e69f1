package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nijaru/yt-summarizer/config"
)

const (
	FileName   = "app.log"
	TimeFormat = "2006-01-02 15:04:05"
)

// New builds the process-wide logger. It writes to a rolling file under
// cfg.Dir and, when cfg.Stdout is set, to stdout as well.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	if err := os.MkdirAll(cfg.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, FileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	var out io.Writer = logFile
	if cfg.Stdout {
		out = io.MultiWriter(os.Stdout, logFile)
	}

	return NewWithWriter(out, cfg.Level), nil
}

// NewWithWriter is New without the file sink.
func NewWithWriter(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(ParseLevel(level))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimeFormat,
		DisableColors:   true,
	})
	return logger
}

// ParseLevel maps debug, info, warn, error and critical to logrus levels.
// Unknown names fall back to debug.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "critical", "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// Critical logs at error level tagged severity=critical. logrus has no
// level between error and fatal that does not exit or panic.
func Critical(logger logrus.FieldLogger, msg string) {
	logger.WithField("severity", "critical").Error(msg)
}
