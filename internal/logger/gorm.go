package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's SQL tracing through zerolog.
type GormLogger struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger() *GormLogger {
	return &GormLogger{LogLevel: gormlogger.Warn, SlowThreshold: 200 * time.Millisecond}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		lg := l.logger(ctx)
		lg.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		lg := l.logger(ctx)
		lg.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		lg := l.logger(ctx)
		lg.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	lg := l.logger(ctx)

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		lg.Error().Err(err).Str("sql", sql).Dur("latency", elapsed).Int64("rows", rows).Msg("sql error")
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= gormlogger.Warn:
		lg.Warn().Str("sql", sql).Dur("latency", elapsed).Int64("rows", rows).Msg("slow sql")
	case l.LogLevel >= gormlogger.Info:
		lg.Debug().Str("sql", sql).Dur("latency", elapsed).Int64("rows", rows).Msg("sql")
	}
}

func (l *GormLogger) logger(ctx context.Context) zerolog.Logger {
	lg := For("gorm")
	if id := RequestIDFrom(ctx); id != "" {
		lg = lg.With().Str("request_id", id).Logger()
	}
	return lg
}
