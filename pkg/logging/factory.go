package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LoggerFactory builds the Logger returned by NewLogger. With no factory
// installed NewLogger falls back to a default logrus logger on stderr.
type LoggerFactory interface {
	CreateLogger(ctx context.Context) Logger
}

var (
	loggerFactoryMu sync.RWMutex
	loggerFactory   LoggerFactory
)

// SetLoggerFactory installs factory process-wide. nil restores the default.
func SetLoggerFactory(factory LoggerFactory) {
	loggerFactoryMu.Lock()
	defer loggerFactoryMu.Unlock()

	loggerFactory = factory
}

func GetLoggerFactory() LoggerFactory {
	loggerFactoryMu.RLock()
	defer loggerFactoryMu.RUnlock()

	return loggerFactory
}

type logrusFactory struct {
	logger *logrus.Logger
}

// NewLogrusFactory builds a factory whose loggers share one sink, level and formatter.
// format is "text" (default) or "json".
func NewLogrusFactory(out io.Writer, level string, format string) (LoggerFactory, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	parsedLevel := logrus.InfoLevel
	if strings.TrimSpace(level) != "" {
		var err error
		parsedLevel, err = logrus.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			return nil, err
		}
	}
	logger.SetLevel(parsedLevel)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	return &logrusFactory{logger: logger}, nil
}

func (f *logrusFactory) CreateLogger(ctx context.Context) Logger {
	return &logrusLogger{entry: f.logger.WithContext(ctx)}
}
