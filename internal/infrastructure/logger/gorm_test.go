package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(gl *GormLogger, ctx context.Context, begin time.Time, err error) {
	gl.Trace(ctx, begin, func() (string, int64) {
		return "SELECT * FROM plots WHERE branch_id = ?", 5
	}, err)
}

func TestNewGormLogger(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)
	var _ gormlogger.Interface = gl
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.ignoreRecordNotFoundError)
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)
	clone := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.logLevel)

	cloneGl, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloneGl.logLevel)
}

func TestGormLogger_LeveledMessages(t *testing.T) {
	t.Run("info passes through at info level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Info(context.Background(), "migrating %s", "plots")

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "migrating plots")
	})

	t.Run("info suppressed at silent level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Info(context.Background(), "migrating plots")
		assert.Empty(t, recorded.All())
	})

	t.Run("warn and error keep their levels", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Warn(context.Background(), "pool nearly exhausted")
		gl.Error(context.Background(), "connection lost")

		entries := recorded.All()
		require.Len(t, entries, 2)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("query errors log as SQL Error", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, context.Background(), time.Now(), errors.New("deadlock detected"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("record not found is suppressed by default", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow queries are flagged", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		traceQuery(gl, context.Background(), time.Now().Add(-time.Second), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("normal queries log at debug", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		traceQuery(gl, context.Background(), time.Now(), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("silent level traces nothing", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		traceQuery(gl, context.Background(), time.Now(), nil)
		assert.Empty(t, recorded.All())
	})

	t.Run("request ID from context is attached", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
		traceQuery(gl, ctx, time.Now(), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
