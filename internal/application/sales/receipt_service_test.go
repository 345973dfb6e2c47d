package sales

import (
	"context"
	"testing"
	"time"

	"github.com/estate/backend/internal/application/notification"
	"github.com/estate/backend/internal/domain/finance"
	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/sales"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSender captures outbound SMS messages for assertions
type recordingSender struct {
	phones   []string
	messages []string
}

func (r *recordingSender) Send(ctx context.Context, phone, message string) error {
	r.phones = append(r.phones, phone)
	r.messages = append(r.messages, message)
	return nil
}

func newTestSaleForReceipts(t *testing.T, branchID uuid.UUID) *sales.Sale {
	t.Helper()
	plan := []sales.StagePlan{
		{Name: sales.StageBooking, PlannedAmount: valueobject.NewMoneyBDT(decimal.NewFromInt(500000))},
		{Name: sales.StageInstallments, PlannedAmount: valueobject.NewMoneyBDT(decimal.NewFromInt(1500000))},
	}
	sale, err := sales.NewSale(branchID, "SAL-2024-03-00001", uuid.New(), uuid.New(), uuid.New(),
		"Rahim Uddin", "+8801712345678", valueobject.NewMoneyBDT(decimal.NewFromInt(2000000)),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), plan)
	require.NoError(t, err)
	sale.ClearDomainEvents()
	return sale
}

func newReceiptServiceForTest(receiptRepo *MockReceiptRepository, saleRepo *MockSaleRepository, entryRepo *MockEntryRepository) *ReceiptService {
	return NewReceiptService(receiptRepo, saleRepo, entryRepo, newStubNumberGenerator(), stubTxManager{})
}

func newTestCreateReceiptRequest(saleID uuid.UUID) CreateReceiptRequest {
	return CreateReceiptRequest{
		SaleID:        saleID,
		StageName:     string(sales.StageBooking),
		Amount:        decimal.NewFromInt(500000),
		PaymentMethod: string(finance.PaymentMethodBankTransfer),
		ReceivedFrom:  "Rahim Uddin",
		ReceiptDate:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// Test Cases for Create
// =============================================================================

func TestReceiptService_Create_Success(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)

	receiptRepo := new(MockReceiptRepository)
	saleRepo := new(MockSaleRepository)
	entryRepo := new(MockEntryRepository)
	service := newReceiptServiceForTest(receiptRepo, saleRepo, entryRepo)

	saleRepo.On("FindByIDForBranch", ctx, branchID, sale.ID).Return(sale, nil)
	receiptRepo.On("Save", ctx, mock.AnythingOfType("*finance.Receipt")).Return(nil)

	result, err := service.Create(ctx, branchID, newTestCreateReceiptRequest(sale.ID))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.ReceiptNumber, "RCP-2024-03")
	assert.Equal(t, string(finance.ApprovalStatusDraft), result.Status)
	assert.Equal(t, sale.SaleNumber, result.SaleNumber)

	// Drafting a receipt does not move the sale
	assert.True(t, sale.PaidAmount.IsZero())

	receiptRepo.AssertExpectations(t)
}

func TestReceiptService_Create_AmountExceedsStageDue(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)

	receiptRepo := new(MockReceiptRepository)
	saleRepo := new(MockSaleRepository)
	service := newReceiptServiceForTest(receiptRepo, saleRepo, new(MockEntryRepository))

	saleRepo.On("FindByIDForBranch", ctx, branchID, sale.ID).Return(sale, nil)

	req := newTestCreateReceiptRequest(sale.ID)
	req.Amount = decimal.NewFromInt(600000) // booking stage plans 500000

	result, err := service.Create(ctx, branchID, req)

	require.Error(t, err)
	assert.Nil(t, result)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "AMOUNT_EXCEEDS_DUE", de.Code)
	receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReceiptService_Create_CancelledSale(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)
	require.NoError(t, sale.Cancel("client backed out", time.Now()))

	receiptRepo := new(MockReceiptRepository)
	saleRepo := new(MockSaleRepository)
	service := newReceiptServiceForTest(receiptRepo, saleRepo, new(MockEntryRepository))

	saleRepo.On("FindByIDForBranch", ctx, branchID, sale.ID).Return(sale, nil)

	result, err := service.Create(ctx, branchID, newTestCreateReceiptRequest(sale.ID))

	require.Error(t, err)
	assert.Nil(t, result)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE", de.Code)
}

// =============================================================================
// Test Cases for the Approval Chain
// =============================================================================

func TestReceiptService_ApprovalChain_AppliesPaymentOnFinalApproval(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)

	receipt, err := finance.NewReceipt(branchID, "RCP-2024-03-00001", sale.ID, sale.SaleNumber,
		string(sales.StageBooking), valueobject.NewMoneyBDT(decimal.NewFromInt(500000)),
		finance.PaymentMethodBankTransfer, "TRX-778", "Rahim Uddin",
		time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	receipt.ClearDomainEvents()

	receiptRepo := new(MockReceiptRepository)
	saleRepo := new(MockSaleRepository)
	entryRepo := new(MockEntryRepository)
	service := newReceiptServiceForTest(receiptRepo, saleRepo, entryRepo)

	sender := &recordingSender{}
	service.SetNotifier(notification.NewDispatcher(sender, nil, zap.NewNop()))

	clerkID := uuid.New()
	managerID := uuid.New()

	receiptRepo.On("FindByIDForBranch", ctx, branchID, receipt.ID).Return(receipt, nil)
	receiptRepo.On("SaveWithLock", ctx, receipt).Return(nil)
	saleRepo.On("FindByIDForBranch", ctx, branchID, sale.ID).Return(sale, nil)
	saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
	entryRepo.On("Append", ctx, mock.MatchedBy(func(entries []ledger.Entry) bool {
		return ledger.ValidateBalanced(entries) == nil
	})).Return(nil)

	_, err = service.Submit(ctx, branchID, receipt.ID, clerkID, finance.RoleFinanceClerk)
	require.NoError(t, err)

	// Level 1: clerk
	result, err := service.Approve(ctx, branchID, receipt.ID, clerkID, finance.RoleFinanceClerk, "checked")
	require.NoError(t, err)
	assert.Equal(t, string(finance.ApprovalStatusPendingLevel2), result.Status)
	assert.True(t, sale.PaidAmount.IsZero())
	entryRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)

	// Level 2: manager, payment lands on the sale and in the ledger
	result, err = service.Approve(ctx, branchID, receipt.ID, managerID, finance.RoleFinanceManager, "ok")
	require.NoError(t, err)
	assert.Equal(t, string(finance.ApprovalStatusApproved), result.Status)
	assert.True(t, result.PostedToLedger)

	assert.True(t, sale.PaidAmount.Equal(decimal.NewFromInt(500000)))
	bookingStage := sale.FindStage(sales.StageBooking)
	require.NotNil(t, bookingStage)
	assert.Equal(t, sales.StageStatusCompleted, bookingStage.Status)
	entryRepo.AssertExpectations(t)

	// Client got exactly one SMS
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "+8801712345678", sender.phones[0])
	assert.Contains(t, sender.messages[0], "RCP-2024-03-00001")
}

func TestReceiptService_Approve_WrongRole(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)

	receipt, err := finance.NewReceipt(branchID, "RCP-2024-03-00002", sale.ID, sale.SaleNumber,
		string(sales.StageBooking), valueobject.NewMoneyBDT(decimal.NewFromInt(100000)),
		finance.PaymentMethodCash, "", "Rahim Uddin",
		time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, receipt.Submit(uuid.New(), finance.RoleFinanceClerk, time.Now()))
	receipt.ClearDomainEvents()

	receiptRepo := new(MockReceiptRepository)
	saleRepo := new(MockSaleRepository)
	entryRepo := new(MockEntryRepository)
	service := newReceiptServiceForTest(receiptRepo, saleRepo, entryRepo)

	receiptRepo.On("FindByIDForBranch", ctx, branchID, receipt.ID).Return(receipt, nil)

	// A manager cannot take the level-1 slot
	result, err := service.Approve(ctx, branchID, receipt.ID, uuid.New(), finance.RoleFinanceManager, "")

	require.Error(t, err)
	assert.Nil(t, result)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", de.Code)
	assert.Equal(t, finance.ApprovalStatusPendingLevel1, receipt.Status)
	receiptRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	entryRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestReceiptService_Reject_ReturnsToEditable(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	sale := newTestSaleForReceipts(t, branchID)

	receipt, err := finance.NewReceipt(branchID, "RCP-2024-03-00003", sale.ID, sale.SaleNumber,
		string(sales.StageBooking), valueobject.NewMoneyBDT(decimal.NewFromInt(100000)),
		finance.PaymentMethodCash, "", "Rahim Uddin",
		time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, receipt.Submit(uuid.New(), finance.RoleFinanceClerk, time.Now()))
	receipt.ClearDomainEvents()

	receiptRepo := new(MockReceiptRepository)
	service := newReceiptServiceForTest(receiptRepo, new(MockSaleRepository), new(MockEntryRepository))

	receiptRepo.On("FindByIDForBranch", ctx, branchID, receipt.ID).Return(receipt, nil)
	receiptRepo.On("SaveWithLock", ctx, receipt).Return(nil)

	result, err := service.Reject(ctx, branchID, receipt.ID, uuid.New(), finance.RoleFinanceClerk, "wrong amount")

	require.NoError(t, err)
	assert.Equal(t, string(finance.ApprovalStatusRejected), result.Status)

	// The rejected receipt can be edited and resubmitted
	updated, err := service.Update(ctx, branchID, receipt.ID, UpdateReceiptRequest{
		Amount:        decimal.NewFromInt(150000),
		PaymentMethod: string(finance.PaymentMethodCash),
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(150000)))
}
