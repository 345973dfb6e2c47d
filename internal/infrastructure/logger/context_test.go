package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newDevLogger(t *testing.T) *zap.Logger {
	t.Helper()
	log, err := NewForEnvironment("development")
	require.NoError(t, err)
	return log
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	ctx := WithContext(context.Background(), newDevLogger(t))
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContext_Fallbacks(t *testing.T) {
	t.Run("empty context yields nop logger", func(t *testing.T) {
		log := FromContext(context.Background())
		assert.NotNil(t, log)
		assert.NotPanics(t, func() { log.Info("probe") })
	})

	t.Run("wrong value type yields nop logger", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		log := FromContext(ctx)
		assert.NotNil(t, log)
		assert.NotPanics(t, func() { log.Info("probe") })
	})
}

func TestContextEnrichment(t *testing.T) {
	base := newDevLogger(t)

	t.Run("request id", func(t *testing.T) {
		ctx, log := WithRequestID(context.Background(), base, "req-7f3a")
		assert.NotNil(t, log)
		assert.Equal(t, "req-7f3a", GetRequestID(ctx))
	})

	t.Run("branch id", func(t *testing.T) {
		ctx, log := WithBranchID(context.Background(), base, "branch-nasr-city")
		assert.NotNil(t, log)
		assert.Equal(t, "branch-nasr-city", GetBranchID(ctx))
	})

	t.Run("actor id", func(t *testing.T) {
		ctx, log := WithActorID(context.Background(), base, "accountant-1")
		assert.NotNil(t, log)
		assert.Equal(t, "accountant-1", GetActorID(ctx))
	})

	t.Run("chained enrichment keeps every field", func(t *testing.T) {
		ctx := context.Background()
		log := base
		ctx, log = WithRequestID(ctx, log, "req-7f3a")
		ctx, log = WithBranchID(ctx, log, "branch-nasr-city")
		ctx, log = WithActorID(ctx, log, "accountant-1")

		assert.NotNil(t, log)
		assert.Equal(t, "req-7f3a", GetRequestID(ctx))
		assert.Equal(t, "branch-nasr-city", GetBranchID(ctx))
		assert.Equal(t, "accountant-1", GetActorID(ctx))
	})

	t.Run("later request id overrides earlier", func(t *testing.T) {
		ctx, _ := WithRequestID(context.Background(), base, "req-first")
		ctx, _ = WithRequestID(ctx, base, "req-second")
		assert.Equal(t, "req-second", GetRequestID(ctx))
	})

	t.Run("enriched logger replaces the one in context", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), base, "req-7f3a")
		assert.NotEqual(t, base, enriched)
		assert.NotNil(t, FromContext(ctx))
	})
}

func TestContextGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetBranchID(ctx))
	assert.Empty(t, GetActorID(ctx))
}

func TestContextKeysAreDistinct(t *testing.T) {
	keys := []any{LoggerKey, RequestIDKey, BranchIDKey, ActorIDKey}
	for i, a := range keys {
		for _, b := range keys[i+1:] {
			assert.NotEqual(t, a, b)
		}
	}
}

func TestL(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		cl := L(context.Background())
		require.NotNil(t, cl)
		assert.NotNil(t, cl.ctx)
		assert.NotNil(t, cl.logger)
	})

	t.Run("picks up logger from context", func(t *testing.T) {
		ctx := WithContext(context.Background(), newDevLogger(t))
		cl := L(ctx)
		require.NotNil(t, cl)
		assert.NotNil(t, cl.logger)
	})
}

func TestWithLogger_UsesProvidedLogger(t *testing.T) {
	base := newDevLogger(t)
	cl := WithLogger(context.Background(), base)
	require.NotNil(t, cl)
	assert.Equal(t, base, cl.logger)
}

func TestContextLogger_With(t *testing.T) {
	base, _ := newObservedLogger()
	ctx := context.Background()
	cl := WithLogger(ctx, base)

	child := cl.With(zap.String("sale_number", "S-2024-0001"))
	require.NotNil(t, child)
	assert.Equal(t, ctx, child.ctx)
	assert.NotEqual(t, base, child.logger)

	chained := child.With(zap.String("plot_number", "P-101"))
	assert.NotPanics(t, func() { chained.Info("chained") })
}

func TestContextLogger_LogLevels(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())
	assert.NotPanics(t, func() {
		cl.Debug("debug message")
		cl.Info("info message")
		cl.Warn("warn message")
		cl.Error("error message")
	})
}

func TestContextLogger_ZapAndSugar(t *testing.T) {
	cl := WithLogger(context.Background(), zap.NewNop())

	require.NotNil(t, cl.Zap())
	assert.NotPanics(t, func() { cl.Zap().Info("probe") })

	require.NotNil(t, cl.Sugar())
	assert.NotPanics(t, func() { cl.Sugar().Infof("probe %s", "sugar") })
}

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	base, logs := newObservedLogger()

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-7f3a")
	ctx, _ = WithBranchID(ctx, base, "branch-nasr-city")
	ctx, _ = WithActorID(ctx, base, "accountant-1")
	ctx = WithContext(ctx, base)

	L(ctx).Info("receipt recorded", zap.String("receipt_number", "R-2024-0042"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "receipt recorded", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7f3a", fields["request_id"])
	assert.Equal(t, "branch-nasr-city", fields["branch_id"])
	assert.Equal(t, "accountant-1", fields["actor_id"])
	assert.Equal(t, "R-2024-0042", fields["receipt_number"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() { cl.Info("probe") })
}

func TestContextLogger_SkipsEmptyContextFields(t *testing.T) {
	base, logs := newObservedLogger()

	WithLogger(context.Background(), base).Info("bare entry")

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.NotContains(t, fields, "request_id")
	assert.NotContains(t, fields, "branch_id")
	assert.NotContains(t, fields, "actor_id")
}
