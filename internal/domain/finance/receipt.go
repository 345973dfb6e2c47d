package finance

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the channel a payment arrived through
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque        PaymentMethod = "CHEQUE"
	PaymentMethodMobileBanking PaymentMethod = "MOBILE_BANKING"
	PaymentMethodOther         PaymentMethod = "OTHER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodMobileBanking, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Receipt is a money-in voucher against one stage of a sale. It only
// touches the sale once the approval chain completes.
type Receipt struct {
	shared.BranchAggregateRoot
	ReceiptNumber    string          `json:"receipt_number"`
	SaleID           uuid.UUID       `json:"sale_id"`
	SaleNumber       string          `json:"sale_number"`
	StageName        string          `json:"stage_name"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
	ReceivedFrom     string          `json:"received_from"`
	ReceiptDate      time.Time       `json:"receipt_date"`
	Remark           string          `json:"remark"`
	Approval
}

// NewReceipt creates a new receipt voucher in draft state
func NewReceipt(
	branchID uuid.UUID,
	receiptNumber string,
	saleID uuid.UUID,
	saleNumber, stageName string,
	amount valueobject.Money,
	method PaymentMethod,
	paymentReference, receivedFrom string,
	receiptDate time.Time,
) (*Receipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if stageName == "" {
		return nil, shared.NewDomainError("INVALID_STAGE", "Stage name cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if receiptDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Receipt date is required")
	}

	r := &Receipt{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		ReceiptNumber:       receiptNumber,
		SaleID:              saleID,
		SaleNumber:          saleNumber,
		StageName:           stageName,
		Amount:              amount.Amount(),
		PaymentMethod:       method,
		PaymentReference:    paymentReference,
		ReceivedFrom:        receivedFrom,
		ReceiptDate:         receiptDate,
		Approval:            NewApproval(),
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))

	return r, nil
}

// UpdateDetails edits the voucher body while it is still editable
func (r *Receipt) UpdateDetails(amount valueobject.Money, method PaymentMethod, paymentReference, remark string) error {
	if !r.IsEditable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot edit a receipt in %s status", r.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Receipt amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	r.Amount = amount.Amount()
	r.PaymentMethod = method
	r.PaymentReference = paymentReference
	r.Remark = remark
	r.touch()

	return nil
}

// Submit sends the receipt into the approval chain
func (r *Receipt) Submit(actorID uuid.UUID, role ApproverRole, now time.Time) error {
	if err := r.Approval.Submit(actorID, role, now); err != nil {
		return err
	}
	r.touch()
	r.AddDomainEvent(NewReceiptSubmittedEvent(r))
	return nil
}

// Approve advances the receipt one approval level
func (r *Receipt) Approve(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := r.Approval.Approve(actorID, role, remarks, now); err != nil {
		return err
	}
	r.touch()
	if r.IsApproved() {
		r.AddDomainEvent(NewReceiptApprovedEvent(r))
	}
	return nil
}

// Reject declines the receipt at its current level
func (r *Receipt) Reject(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	if err := r.Approval.Reject(actorID, role, remarks, now); err != nil {
		return err
	}
	r.touch()
	r.AddDomainEvent(NewReceiptRejectedEvent(r, remarks))
	return nil
}

// MarkPosted flags the receipt as posted to the ledger
func (r *Receipt) MarkPosted(now time.Time) error {
	if err := r.Approval.MarkPosted(now); err != nil {
		return err
	}
	r.touch()
	return nil
}

// GetAmountMoney returns the receipt amount as Money
func (r *Receipt) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(r.Amount)
}

func (r *Receipt) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
