package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReceiptTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ReceiptModel{}, &models.ApprovalRecordModel{})
	require.NoError(t, err)

	return db
}

func newStoredReceipt(t *testing.T, repo *GormReceiptRepository, branchID uuid.UUID, number string) *finance.Receipt {
	t.Helper()
	amount, err := valueobject.NewMoneyBDTFromString("50000.00")
	require.NoError(t, err)
	receipt, err := finance.NewReceipt(branchID, number, uuid.New(), "S-2024-0001",
		"BOOKING", amount, finance.PaymentMethodBankTransfer,
		"TRX-99813", "Imran Kabir", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), receipt))
	return receipt
}

func TestGormReceiptRepository_SaveWithLock(t *testing.T) {
	db := setupReceiptTestDB(t)
	repo := NewGormReceiptRepository(db)
	ctx := context.Background()

	branchID := uuid.New()
	clerkID := uuid.New()
	managerID := uuid.New()

	t.Run("persists the full approval chain through posting", func(t *testing.T) {
		created := newStoredReceipt(t, repo, branchID, "R-2024-0042")

		receipt, err := repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)
		require.NoError(t, receipt.Submit(clerkID, finance.RoleFinanceClerk, time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, receipt))

		receipt, err = repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)
		require.NoError(t, receipt.Approve(clerkID, finance.RoleFinanceClerk, "", time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, receipt))

		// The final approval both approves and posts, so the version moves
		// twice between the read and the single save.
		receipt, err = repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)
		require.NoError(t, receipt.Approve(managerID, finance.RoleFinanceManager, "verified", time.Now()))
		require.NoError(t, receipt.MarkPosted(time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, receipt))

		found, err := repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ApprovalStatusApproved, found.Status)
		assert.True(t, found.PostedToLedger)
		assert.Equal(t, receipt.Version, found.Version)
		assert.Len(t, found.History, 3)
	})

	t.Run("rejects a write from a stale copy", func(t *testing.T) {
		created := newStoredReceipt(t, repo, branchID, "R-2024-0043")

		fresh, err := repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)
		stale, err := repo.FindByIDForBranch(ctx, branchID, created.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Submit(clerkID, finance.RoleFinanceClerk, time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Submit(clerkID, finance.RoleFinanceClerk, time.Now()))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
