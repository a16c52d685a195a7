package util

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var (
	baseMu sync.RWMutex
	base   = newBase(zapcore.InfoLevel, LogFormatConsole)
)

type Logger struct {
	name   string
	logger *zap.SugaredLogger
}

// ConfigureLogging replaces the root logger every named logger created
// afterwards derives from. Logs go to stderr so command output stays clean.
func ConfigureLogging(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return NewError(ErrInvalidArgument, fmt.Sprintf("invalid log level %q", level), err)
	}
	if format != LogFormatConsole && format != LogFormatJSON {
		return NewError(ErrInvalidArgument, fmt.Sprintf("invalid log format %q", format), nil)
	}

	baseMu.Lock()
	defer baseMu.Unlock()
	_ = base.Sync()
	base = newBase(lvl, format)
	return nil
}

func newBase(level zapcore.Level, format string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if format == LogFormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
}

func NewLogger(name string) *Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &Logger{
		name:   name,
		logger: base.Named(name).Sugar(),
	}
}

// NewLoggerFrom wraps an existing zap logger, e.g. one from zaptest.
func NewLoggerFrom(z *zap.Logger, name string) *Logger {
	return &Logger{
		name:   name,
		logger: z.Named(name).Sugar(),
	}
}

func NewNopLogger() *Logger {
	return &Logger{
		name:   "nop",
		logger: zap.NewNop().Sugar(),
	}
}

func (l *Logger) Name() string {
	return l.name
}

// With returns a child logger that adds the key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		name:   l.name,
		logger: l.logger.With(keysAndValues...),
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}
