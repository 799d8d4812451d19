package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	liberrors "github.com/RudolfRTC/AI-Research/pkg/errors"
)

// ErrAttrKey is the key under which Error attaches a leading error value.
const ErrAttrKey = "error"

var (
	globalMu       sync.RWMutex
	globalProvider LoggerProvider = NewProvider(os.Stderr, LevelInfo)
)

// GetLogger returns the default logger from the global provider.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider.GetLogger()
}

// GetLoggerWithName returns a component logger from the global provider.
func GetLoggerWithName(name string) Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider.GetLoggerWithName(name)
}

// SetProvider replaces the global provider. Tests use it to capture output.
func SetProvider(p LoggerProvider) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = p
}

// SetupLogger installs a human-readable console provider at the given level
// and routes library warnings (ConvergenceWarning etc.) through it.
func SetupLogger(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	p := NewProvider(out, lvl)
	SetProvider(p)
	liberrors.SetZerologWarnFunc(p.warn)
	return nil
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, liberrors.NewInvalidConfigurationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

func toZerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Provider is the zerolog-backed LoggerProvider.
type Provider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewProvider creates a provider writing to w at the given minimum level.
func NewProvider(w io.Writer, level Level) *Provider {
	return &Provider{
		base: zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger(),
	}
}

// GetLogger implements LoggerProvider.
func (p *Provider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base}
}

// GetLoggerWithName implements LoggerProvider.
func (p *Provider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.
func (p *Provider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(toZerologLevel(level))
}

// warn is installed as the sink of errors.Warn.
func (p *Provider) warn(w error) {
	p.mu.RLock()
	zl := p.base
	p.mu.RUnlock()

	ev := zl.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.Object("warning", m)
	}
	ev.Msg(w.Error())
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = ev.AnErr(ErrAttrKey, err)
			if l.zl.GetLevel() <= zerolog.DebugLevel {
				ev = ev.Str(StacktraceKey, fmt.Sprintf("%+v", err))
			}
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}
