package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observedGorm(level string) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), 0.1, level), logs
}

func query() (string, int64) { return "SELECT * FROM products", 3 }

func TestNewGormLogger_Levels(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"info":   gormlogger.Warn,
		"warn":   gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
	}
	for in, want := range cases {
		l, _ := observedGorm(in)
		assert.Equal(t, want, l.level, in)
	}
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-9")

	t.Run("failed query", func(t *testing.T) {
		l, logs := observedGorm("info")
		l.Trace(ctx, time.Now(), query, errors.New("connection reset"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "query failed", entry.Message)
		assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := observedGorm("info")
		l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, logs := observedGorm("info")
		l.Trace(ctx, time.Now().Add(-time.Second), query, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "slow query", logs.All()[0].Message)
	})

	t.Run("statements only at debug", func(t *testing.T) {
		l, logs := observedGorm("debug")
		l.Trace(ctx, time.Now(), query, nil)

		require.Equal(t, 1, logs.FilterMessage("query").Len())
		assert.EqualValues(t, 3, logs.All()[0].ContextMap()["rows"])
	})

	t.Run("silent", func(t *testing.T) {
		l, logs := observedGorm("info")
		l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("x"))
		assert.Equal(t, 0, logs.Len())
	})
}
