package finance

import (
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCancellation(t *testing.T, totalPaid, pct, deductions string) *Cancellation {
	t.Helper()
	percent, err := decimal.NewFromString(pct)
	require.NoError(t, err)
	c, err := NewCancellation(
		uuid.New(),
		uuid.New(),
		"SAL-2024-01-00001",
		uuid.New(), uuid.New(),
		"Rahim Uddin",
		"client relocating abroad",
		money(t, totalPaid),
		percent,
		money(t, deductions),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return c
}

func TestNewCancellation(t *testing.T) {
	c := createTestCancellation(t, "100000", "10", "5000")

	assert.Equal(t, CancellationStatusPending, c.Status)
	assert.True(t, c.TotalPaid.Equal(decimal.NewFromInt(100000)))
	assert.True(t, c.OfficeChargeAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, c.RefundableAmount.Equal(decimal.NewFromInt(85000)))
	assert.True(t, c.RemainingRefund.Equal(decimal.NewFromInt(85000)))
	assert.True(t, c.RefundedAmount.IsZero())

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "cancellation.opened", events[0].EventType())
}

func TestNewCancellationValidation(t *testing.T) {
	branchID := uuid.New()
	requested := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	newCancellation := func(t *testing.T, reason, paid, pct, deductions string) error {
		percent, err := decimal.NewFromString(pct)
		require.NoError(t, err)
		_, err = NewCancellation(branchID, uuid.New(), "SAL-1", uuid.New(), uuid.New(),
			"Client", reason, money(t, paid), percent, money(t, deductions), requested)
		return err
	}

	t.Run("missing reason", func(t *testing.T) {
		require.Error(t, newCancellation(t, "", "100000", "10", "0"))
	})

	t.Run("percent above 100", func(t *testing.T) {
		require.Error(t, newCancellation(t, "x", "100000", "101", "0"))
	})

	t.Run("negative percent", func(t *testing.T) {
		require.Error(t, newCancellation(t, "x", "100000", "-1", "0"))
	})

	t.Run("deductions exceed paid", func(t *testing.T) {
		err := newCancellation(t, "x", "100000", "10", "95000")
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_INPUT", de.Code)
	})

	t.Run("zero paid is allowed", func(t *testing.T) {
		require.NoError(t, newCancellation(t, "x", "0", "10", "0"))
	})
}

func TestCancellationDecision(t *testing.T) {
	now := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	manager := uuid.New()

	t.Run("senior role approves", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")

		require.NoError(t, c.Approve(manager, RoleFinanceManager, "verified", now))
		assert.Equal(t, CancellationStatusApproved, c.Status)
		require.NotNil(t, c.DecidedAt)
	})

	t.Run("clerk cannot decide", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")

		err := c.Approve(uuid.New(), RoleFinanceClerk, "", now)
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "FORBIDDEN", de.Code)
		assert.Equal(t, CancellationStatusPending, c.Status)
	})

	t.Run("nothing to refund closes immediately", func(t *testing.T) {
		c := createTestCancellation(t, "0", "10", "0")

		require.NoError(t, c.Approve(manager, RoleAdmin, "", now))
		assert.Equal(t, CancellationStatusRefunded, c.Status)
	})

	t.Run("reject requires remarks", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")

		require.Error(t, c.Reject(manager, RoleFinanceManager, "", now))
		require.NoError(t, c.Reject(manager, RoleFinanceManager, "charge disputed", now))
		assert.Equal(t, CancellationStatusRejected, c.Status)
	})

	t.Run("decided settlement cannot be decided again", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")
		require.NoError(t, c.Approve(manager, RoleFinanceManager, "", now))

		require.Error(t, c.Approve(manager, RoleFinanceManager, "", now))
		require.Error(t, c.Reject(manager, RoleFinanceManager, "late", now))
	})
}

func TestGenerateRefundSchedule(t *testing.T) {
	now := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	manager := uuid.New()

	t.Run("even split", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")
		require.NoError(t, c.Approve(manager, RoleFinanceManager, "", now))

		lines, err := c.GenerateRefundSchedule(5, start)
		require.NoError(t, err)
		require.Len(t, lines, 5)

		total := decimal.Zero
		for i, line := range lines {
			assert.Equal(t, i+1, line.Sequence)
			assert.True(t, line.Amount.Equal(decimal.NewFromInt(17000)))
			assert.Equal(t, start.AddDate(0, i, 0), line.DueDate)
			total = total.Add(line.Amount)
		}
		assert.True(t, total.Equal(c.RefundableAmount))
		assert.True(t, c.ScheduleDiscrepancy().IsZero())
	})

	t.Run("remainder spread keeps the sum exact", func(t *testing.T) {
		c := createTestCancellation(t, "100", "0", "0")
		require.NoError(t, c.Approve(manager, RoleFinanceManager, "", now))

		lines, err := c.GenerateRefundSchedule(3, start)
		require.NoError(t, err)

		assert.Equal(t, "33.34", lines[0].Amount.StringFixed(2))
		assert.Equal(t, "33.33", lines[1].Amount.StringFixed(2))
		assert.Equal(t, "33.33", lines[2].Amount.StringFixed(2))
		assert.True(t, c.ScheduleDiscrepancy().IsZero())
	})

	t.Run("requires an approved settlement", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")

		_, err := c.GenerateRefundSchedule(5, start)
		require.Error(t, err)
	})

	t.Run("no regeneration after a payout", func(t *testing.T) {
		c := createTestCancellation(t, "100000", "10", "5000")
		require.NoError(t, c.Approve(manager, RoleFinanceManager, "", now))
		_, err := c.GenerateRefundSchedule(5, start)
		require.NoError(t, err)
		require.NoError(t, c.RecordRefundPaid(money(t, "17000"), now))

		_, err = c.GenerateRefundSchedule(3, start)
		require.Error(t, err)
	})
}

func TestRecordRefundPaid(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	manager := uuid.New()

	c := createTestCancellation(t, "100000", "10", "5000")
	require.NoError(t, c.Approve(manager, RoleFinanceManager, "", now))

	require.NoError(t, c.RecordRefundPaid(money(t, "50000"), now))
	assert.Equal(t, CancellationStatusPartialRefund, c.Status)
	assert.True(t, c.RefundedAmount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, c.RemainingRefund.Equal(decimal.NewFromInt(35000)))

	err := c.RecordRefundPaid(money(t, "35001"), now)
	require.Error(t, err, "cannot refund more than the remaining amount")

	require.NoError(t, c.RecordRefundPaid(money(t, "35000"), now))
	assert.Equal(t, CancellationStatusRefunded, c.Status)
	assert.True(t, c.RemainingRefund.IsZero())
	assert.True(t, c.IsSettled())

	err = c.RecordRefundPaid(money(t, "1"), now)
	require.Error(t, err, "settled cancellation accepts no more payouts")
}

func TestRefundLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	clerk := uuid.New()
	manager := uuid.New()

	line := RefundPlanLine{
		Sequence: 1,
		DueDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(17000),
	}
	r, err := NewRefund(uuid.New(), "RFD-2024-05-00001", uuid.New(),
		"SAL-2024-01-00001", "Rahim Uddin", line)
	require.NoError(t, err)
	assert.Equal(t, ApprovalStatusDraft, r.Status)

	err = r.MarkPaid(PaymentMethodCash, "", now)
	require.Error(t, err, "unapproved refund cannot be paid")

	require.NoError(t, r.Submit(clerk, RoleFinanceClerk, now))
	require.NoError(t, r.Approve(clerk, RoleFinanceClerk, "", now))
	require.NoError(t, r.Approve(manager, RoleFinanceManager, "", now))

	require.NoError(t, r.MarkPaid(PaymentMethodBankTransfer, "TRX-5521", now))
	assert.True(t, r.Paid)
	require.NotNil(t, r.PaidAt)

	err = r.MarkPaid(PaymentMethodCash, "", now)
	require.Error(t, err)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", de.Code)
}
