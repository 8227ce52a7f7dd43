package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's statement log through zap
type GormLogger struct {
	zap           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
}

// GormOption configures a GormLogger
type GormOption func(*GormLogger)

// WithSlowThreshold marks statements slower than d as warnings
func WithSlowThreshold(d time.Duration) GormOption {
	return func(g *GormLogger) { g.slowThreshold = d }
}

// WithIgnoreRecordNotFoundError stops ErrRecordNotFound being logged as an error.
// Lookups that miss are routine here.
func WithIgnoreRecordNotFoundError(ignore bool) GormOption {
	return func(g *GormLogger) { g.skipNotFound = ignore }
}

// NewGormLogger creates a gorm logger at the given level
func NewGormLogger(l *zap.Logger, level gormlogger.LogLevel, opts ...GormOption) *GormLogger {
	g := &GormLogger{
		zap:           l.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
		skipNotFound:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LogMode implements gormlogger.Interface
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.withCtx(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.withCtx(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.withCtx(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs one executed statement
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	l := g.withCtx(ctx)

	switch {
	case err != nil && g.level >= gormlogger.Error &&
		!(g.skipNotFound && errors.Is(err, gorm.ErrRecordNotFound)):
		l.Error("query failed", append(fields, zap.Error(err))...)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		l.Warn("slow query", append(fields, zap.Duration("threshold", g.slowThreshold))...)
	case g.level >= gormlogger.Info:
		l.Debug("query", fields...)
	}
}

func (g *GormLogger) withCtx(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return g.zap
	}
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetUserID(ctx); id != 0 {
		fields = append(fields, zap.Uint64("user_id", id))
	}
	return g.zap.With(fields...)
}

// MapGormLogLevel converts the configured log level to gorm's level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}
