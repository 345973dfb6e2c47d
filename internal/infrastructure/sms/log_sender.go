package sms

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/application/notification"
	"github.com/estate/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LogSender writes outbound messages to the application log instead of a
// gateway. It is the default provider for development and test environments.
type LogSender struct {
	senderID string
	logger   *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(senderID string, logger *zap.Logger) *LogSender {
	return &LogSender{senderID: senderID, logger: logger}
}

// Send logs the message that a real gateway would deliver
func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	s.logger.Info("SMS dispatched",
		zap.String("sender_id", s.senderID),
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}

var _ notification.Sender = (*LogSender)(nil)

// NewSender builds the sender named by the notification config
func NewSender(cfg config.NotificationConfig, logger *zap.Logger) (notification.Sender, error) {
	switch cfg.Provider {
	case "log", "":
		return NewLogSender(cfg.SenderID, logger), nil
	default:
		return nil, fmt.Errorf("unknown sms provider: %s", cfg.Provider)
	}
}
