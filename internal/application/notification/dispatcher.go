package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sender delivers one SMS message to a phone number
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Dispatcher sends client-facing notifications. Delivery is best effort:
// failures are logged and swallowed so a gateway outage never rolls back
// the business operation that triggered the message. A processed-key store
// keeps retried operations from double-texting clients.
type Dispatcher struct {
	sender      Sender
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
	ttl         time.Duration
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(sender Sender, idempotency shared.IdempotencyStore, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		idempotency: idempotency,
		logger:      logger,
		ttl:         shared.DefaultIdempotencyConfig().TTL,
	}
}

// PaymentReceived notifies a client that a payment was recorded
func (d *Dispatcher) PaymentReceived(ctx context.Context, phone, clientName string, amount decimal.Decimal, receiptNumber string) {
	message := fmt.Sprintf("Dear %s, we have received your payment of BDT %s. Receipt %s. Thank you.",
		clientName, amount.StringFixed(2), receiptNumber)
	d.deliver(ctx, "payment_received:"+receiptNumber, phone, message)
}

// InstallmentDue reminds a client about an upcoming or overdue installment
func (d *Dispatcher) InstallmentDue(ctx context.Context, phone, clientName string, amount decimal.Decimal, saleNumber string, dueDate time.Time) {
	message := fmt.Sprintf("Dear %s, your installment of BDT %s for %s is due on %s. Please pay on time.",
		clientName, amount.StringFixed(2), saleNumber, dueDate.Format("02 Jan 2006"))
	key := fmt.Sprintf("installment_due:%s:%s", saleNumber, dueDate.Format("2006-01-02"))
	d.deliver(ctx, key, phone, message)
}

// RefundPaid notifies a client that a refund payout was made
func (d *Dispatcher) RefundPaid(ctx context.Context, phone, clientName string, amount decimal.Decimal, refundNumber string) {
	message := fmt.Sprintf("Dear %s, a refund of BDT %s has been paid to you. Reference %s.",
		clientName, amount.StringFixed(2), refundNumber)
	d.deliver(ctx, "refund_paid:"+refundNumber, phone, message)
}

func (d *Dispatcher) deliver(ctx context.Context, key, phone, message string) {
	if d.sender == nil || phone == "" {
		return
	}

	if d.idempotency != nil {
		fresh, err := d.idempotency.MarkProcessed(ctx, key, d.ttl)
		if err != nil {
			d.logger.Warn("notification idempotency check failed, sending anyway",
				zap.String("key", key), zap.Error(err))
		} else if !fresh {
			return
		}
	}

	if err := d.sender.Send(ctx, phone, message); err != nil {
		d.logger.Error("failed to send notification",
			zap.String("key", key),
			zap.String("phone", phone),
			zap.Error(err))
	}
}
