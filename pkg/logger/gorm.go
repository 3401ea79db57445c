package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

const maxLoggedSQL = 1000

// GormLogger writes GORM output to zap. Queries carry the request and
// account fields of the context they ran under.
type GormLogger struct {
	log   *zap.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

// NewGormLogger maps the application log level onto GORM's levels.
// Statements are only traced at debug; slow ones are always warned about.
func NewGormLogger(log *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	level := gormlogger.Warn
	switch parseLogLevel(logLevel) {
	case zap.DebugLevel:
		level = gormlogger.Info
	case zap.ErrorLevel, zap.DPanicLevel, zap.PanicLevel, zap.FatalLevel:
		level = gormlogger.Error
	}
	if logLevel == "silent" {
		level = gormlogger.Silent
	}

	return &GormLogger{
		log:   log.Named("gorm"),
		slow:  time.Duration(slowQuerySeconds * float64(time.Second)),
		level: level,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	isSlow := l.slow > 0 && elapsed > l.slow

	switch {
	case failed && l.level >= gormlogger.Error:
		WithContext(ctx, l.log).Error("query failed", append(l.queryFields(fc, elapsed), zap.Error(err))...)
	case isSlow && l.level >= gormlogger.Warn:
		WithContext(ctx, l.log).Warn("slow query", append(l.queryFields(fc, elapsed), zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		WithContext(ctx, l.log).Debug("query", l.queryFields(fc, elapsed)...)
	}
}

func (l *GormLogger) queryFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	if len(sql) > maxLoggedSQL {
		sql = sql[:maxLoggedSQL] + "..."
	}
	return []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
		zap.String("source", utils.FileWithLineNum()),
	}
}
