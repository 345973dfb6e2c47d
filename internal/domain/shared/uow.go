package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionManager runs a function inside one storage transaction.
// Repositories called with the inner context join that transaction, so a
// multi-aggregate operation commits or rolls back as a whole.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Document type codes used for business document numbering
const (
	DocTypeSale    = "SAL"
	DocTypeReceipt = "RCP"
	DocTypeRefund  = "RFD"
	DocTypeExpense = "EXP"
)

// DocumentNumberGenerator issues gap-free per-branch document numbers of
// the form TYPE-YYYY-MM-NNNNN. The sequence restarts every month and must
// stay collision-free under concurrent issuance.
type DocumentNumberGenerator interface {
	Next(ctx context.Context, branchID uuid.UUID, docType string, at time.Time) (string, error)
}
