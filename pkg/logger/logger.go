// Package logger wraps zerolog with request-scoped fields carried on the context.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const FormatConsole = "console"

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Format      string
	Output      io.Writer
}

type Logger struct {
	base      zerolog.Logger
	warnStack bool
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opts.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	base := zerolog.New(out).Level(opts.Level).With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()
	return &Logger{base: base, warnStack: opts.WarnStack}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Options{ServiceName: "nop", Level: zerolog.Disabled, Output: io.Discard})
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// from returns the logger stored on ctx by an earlier With* call, or the base.
func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry := zerolog.Ctx(ctx); entry != nil && entry.GetLevel() != zerolog.Disabled {
			return entry
		}
	}
	return &l.base
}

func (l *Logger) store(ctx context.Context, entry zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return entry.WithContext(ctx)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.store(ctx, l.from(ctx).With().Interface(key, value).Logger())
}

// WithFields attaches fields in key order.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if len(fields) == 0 {
		return l.store(ctx, *l.from(ctx))
	}
	return l.store(ctx, l.from(ctx).With().Fields(fields).Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.from(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.from(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error always records a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.from(ctx).Error().Err(err).Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}

// CopyFields carries the log fields attached to src onto dst.
func CopyFields(dst, src context.Context) context.Context {
	if dst == nil || src == nil {
		return dst
	}
	entry := zerolog.Ctx(src)
	if entry == nil || entry.GetLevel() == zerolog.Disabled {
		return dst
	}
	return entry.WithContext(dst)
}
