package sms

import (
	"context"
	"testing"

	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender("ESTATE", zap.New(core))

	err := sender.Send(context.Background(), "+8801712345678", "Payment of 50000.00 received")
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SMS dispatched", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "ESTATE", fields["sender_id"])
	assert.Equal(t, "+8801712345678", fields["phone"])
	assert.Equal(t, "Payment of 50000.00 received", fields["message"])
}

func TestNewSender(t *testing.T) {
	t.Run("log provider", func(t *testing.T) {
		sender, err := NewSender(config.NotificationConfig{Provider: "log", SenderID: "ESTATE"}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &LogSender{}, sender)
	})

	t.Run("empty provider falls back to log", func(t *testing.T) {
		sender, err := NewSender(config.NotificationConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &LogSender{}, sender)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		_, err := NewSender(config.NotificationConfig{Provider: "twilio"}, zap.NewNop())
		assert.ErrorContains(t, err, "unknown sms provider")
	})
}
